package domain

import "context"

// EventPublisher 事件发布者接口
// ctx 中携带事务时，事件与业务数据在同一事务内写入
type EventPublisher interface {
	PublishInTx(ctx context.Context, eventType, key string, event any) error
}
