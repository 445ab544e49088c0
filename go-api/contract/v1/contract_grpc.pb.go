package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ContractService_CreateContract_FullMethodName  = "/api.contract.v1.ContractService/CreateContract"
	ContractService_GetContract_FullMethodName     = "/api.contract.v1.ContractService/GetContract"
	ContractService_ListContracts_FullMethodName   = "/api.contract.v1.ContractService/ListContracts"
	ContractService_UpdateContract_FullMethodName  = "/api.contract.v1.ContractService/UpdateContract"
	ContractService_DeleteContract_FullMethodName  = "/api.contract.v1.ContractService/DeleteContract"
	ContractService_CloseContract_FullMethodName   = "/api.contract.v1.ContractService/CloseContract"
	ContractService_ExpireContract_FullMethodName  = "/api.contract.v1.ContractService/ExpireContract"
	ContractService_ValuateContract_FullMethodName = "/api.contract.v1.ContractService/ValuateContract"
	ContractService_ScoreRisk_FullMethodName       = "/api.contract.v1.ContractService/ScoreRisk"
)

// ContractServiceClient 合约服务客户端
type ContractServiceClient interface {
	CreateContract(ctx context.Context, in *CreateContractRequest, opts ...grpc.CallOption) (*CreateContractResponse, error)
	GetContract(ctx context.Context, in *GetContractRequest, opts ...grpc.CallOption) (*GetContractResponse, error)
	ListContracts(ctx context.Context, in *ListContractsRequest, opts ...grpc.CallOption) (*ListContractsResponse, error)
	UpdateContract(ctx context.Context, in *UpdateContractRequest, opts ...grpc.CallOption) (*UpdateContractResponse, error)
	DeleteContract(ctx context.Context, in *DeleteContractRequest, opts ...grpc.CallOption) (*DeleteContractResponse, error)
	CloseContract(ctx context.Context, in *CloseContractRequest, opts ...grpc.CallOption) (*CloseContractResponse, error)
	ExpireContract(ctx context.Context, in *ExpireContractRequest, opts ...grpc.CallOption) (*ExpireContractResponse, error)
	ValuateContract(ctx context.Context, in *ValuateContractRequest, opts ...grpc.CallOption) (*ValuateContractResponse, error)
	ScoreRisk(ctx context.Context, in *ScoreRiskRequest, opts ...grpc.CallOption) (*ScoreRiskResponse, error)
}

type contractServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewContractServiceClient(cc grpc.ClientConnInterface) ContractServiceClient {
	return &contractServiceClient{cc}
}

func (c *contractServiceClient) CreateContract(ctx context.Context, in *CreateContractRequest, opts ...grpc.CallOption) (*CreateContractResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(CreateContractResponse)
	err := c.cc.Invoke(ctx, ContractService_CreateContract_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) GetContract(ctx context.Context, in *GetContractRequest, opts ...grpc.CallOption) (*GetContractResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(GetContractResponse)
	err := c.cc.Invoke(ctx, ContractService_GetContract_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) ListContracts(ctx context.Context, in *ListContractsRequest, opts ...grpc.CallOption) (*ListContractsResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(ListContractsResponse)
	err := c.cc.Invoke(ctx, ContractService_ListContracts_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) UpdateContract(ctx context.Context, in *UpdateContractRequest, opts ...grpc.CallOption) (*UpdateContractResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(UpdateContractResponse)
	err := c.cc.Invoke(ctx, ContractService_UpdateContract_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) DeleteContract(ctx context.Context, in *DeleteContractRequest, opts ...grpc.CallOption) (*DeleteContractResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(DeleteContractResponse)
	err := c.cc.Invoke(ctx, ContractService_DeleteContract_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) CloseContract(ctx context.Context, in *CloseContractRequest, opts ...grpc.CallOption) (*CloseContractResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(CloseContractResponse)
	err := c.cc.Invoke(ctx, ContractService_CloseContract_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) ExpireContract(ctx context.Context, in *ExpireContractRequest, opts ...grpc.CallOption) (*ExpireContractResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(ExpireContractResponse)
	err := c.cc.Invoke(ctx, ContractService_ExpireContract_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) ValuateContract(ctx context.Context, in *ValuateContractRequest, opts ...grpc.CallOption) (*ValuateContractResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(ValuateContractResponse)
	err := c.cc.Invoke(ctx, ContractService_ValuateContract_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *contractServiceClient) ScoreRisk(ctx context.Context, in *ScoreRiskRequest, opts ...grpc.CallOption) (*ScoreRiskResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(ScoreRiskResponse)
	err := c.cc.Invoke(ctx, ContractService_ScoreRisk_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ContractServiceServer 合约服务端接口，实现需嵌入 UnimplementedContractServiceServer
type ContractServiceServer interface {
	CreateContract(context.Context, *CreateContractRequest) (*CreateContractResponse, error)
	GetContract(context.Context, *GetContractRequest) (*GetContractResponse, error)
	ListContracts(context.Context, *ListContractsRequest) (*ListContractsResponse, error)
	UpdateContract(context.Context, *UpdateContractRequest) (*UpdateContractResponse, error)
	DeleteContract(context.Context, *DeleteContractRequest) (*DeleteContractResponse, error)
	CloseContract(context.Context, *CloseContractRequest) (*CloseContractResponse, error)
	ExpireContract(context.Context, *ExpireContractRequest) (*ExpireContractResponse, error)
	ValuateContract(context.Context, *ValuateContractRequest) (*ValuateContractResponse, error)
	ScoreRisk(context.Context, *ScoreRiskRequest) (*ScoreRiskResponse, error)
	mustEmbedUnimplementedContractServiceServer()
}

type UnimplementedContractServiceServer struct{}

func (UnimplementedContractServiceServer) CreateContract(context.Context, *CreateContractRequest) (*CreateContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateContract not implemented")
}

func (UnimplementedContractServiceServer) GetContract(context.Context, *GetContractRequest) (*GetContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetContract not implemented")
}

func (UnimplementedContractServiceServer) ListContracts(context.Context, *ListContractsRequest) (*ListContractsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListContracts not implemented")
}

func (UnimplementedContractServiceServer) UpdateContract(context.Context, *UpdateContractRequest) (*UpdateContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdateContract not implemented")
}

func (UnimplementedContractServiceServer) DeleteContract(context.Context, *DeleteContractRequest) (*DeleteContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteContract not implemented")
}

func (UnimplementedContractServiceServer) CloseContract(context.Context, *CloseContractRequest) (*CloseContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CloseContract not implemented")
}

func (UnimplementedContractServiceServer) ExpireContract(context.Context, *ExpireContractRequest) (*ExpireContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ExpireContract not implemented")
}

func (UnimplementedContractServiceServer) ValuateContract(context.Context, *ValuateContractRequest) (*ValuateContractResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ValuateContract not implemented")
}

func (UnimplementedContractServiceServer) ScoreRisk(context.Context, *ScoreRiskRequest) (*ScoreRiskResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreRisk not implemented")
}
func (UnimplementedContractServiceServer) mustEmbedUnimplementedContractServiceServer() {}

func RegisterContractServiceServer(s grpc.ServiceRegistrar, srv ContractServiceServer) {
	s.RegisterService(&ContractService_ServiceDesc, srv)
}

func _ContractService_CreateContract_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).CreateContract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_CreateContract_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).CreateContract(ctx, req.(*CreateContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_GetContract_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).GetContract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_GetContract_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).GetContract(ctx, req.(*GetContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_ListContracts_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListContractsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).ListContracts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_ListContracts_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).ListContracts(ctx, req.(*ListContractsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_UpdateContract_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdateContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).UpdateContract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_UpdateContract_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).UpdateContract(ctx, req.(*UpdateContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_DeleteContract_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).DeleteContract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_DeleteContract_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).DeleteContract(ctx, req.(*DeleteContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_CloseContract_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CloseContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).CloseContract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_CloseContract_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).CloseContract(ctx, req.(*CloseContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_ExpireContract_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExpireContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).ExpireContract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_ExpireContract_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).ExpireContract(ctx, req.(*ExpireContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_ValuateContract_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ValuateContractRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).ValuateContract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_ValuateContract_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).ValuateContract(ctx, req.(*ValuateContractRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ContractService_ScoreRisk_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ScoreRiskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ContractServiceServer).ScoreRisk(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ContractService_ScoreRisk_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ContractServiceServer).ScoreRisk(ctx, req.(*ScoreRiskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ContractService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "api.contract.v1.ContractService",
	HandlerType: (*ContractServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateContract",
			Handler:    _ContractService_CreateContract_Handler,
		},
		{
			MethodName: "GetContract",
			Handler:    _ContractService_GetContract_Handler,
		},
		{
			MethodName: "ListContracts",
			Handler:    _ContractService_ListContracts_Handler,
		},
		{
			MethodName: "UpdateContract",
			Handler:    _ContractService_UpdateContract_Handler,
		},
		{
			MethodName: "DeleteContract",
			Handler:    _ContractService_DeleteContract_Handler,
		},
		{
			MethodName: "CloseContract",
			Handler:    _ContractService_CloseContract_Handler,
		},
		{
			MethodName: "ExpireContract",
			Handler:    _ContractService_ExpireContract_Handler,
		},
		{
			MethodName: "ValuateContract",
			Handler:    _ContractService_ValuateContract_Handler,
		},
		{
			MethodName: "ScoreRisk",
			Handler:    _ContractService_ScoreRisk_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/contract/v1/contract.proto",
}
