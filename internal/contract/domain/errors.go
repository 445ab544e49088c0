package domain

import "errors"

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrHoldingNotFound  = errors.New("holding not found")
	ErrInvalidContract  = errors.New("invalid contract")
	ErrInvalidHolding   = errors.New("invalid holding")
	ErrContractTerminal = errors.New("contract is already closed or expired")
	ErrUnknownEvent     = errors.New("unknown lifecycle event")
)
