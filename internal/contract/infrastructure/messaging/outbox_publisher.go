package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/optionstracker/pkg/db"
	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
)

// OutboxMessage 待投递事件
// Seq 为自增主键，决定投递顺序；同一毫秒内写入的事件 CreatedAt 可能相同
type OutboxMessage struct {
	Seq          uint64    `gorm:"primaryKey;autoIncrement"`
	ID           string    `gorm:"type:varchar(36);uniqueIndex"`
	EventID      string    `gorm:"type:varchar(36);index"`
	EventType    string    `gorm:"type:varchar(100);index"`
	AggregateKey string    `gorm:"type:varchar(64)"`
	Payload      string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);index;default:'pending'"`
	Attempts     int       `gorm:"default:0"`
	LastError    string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName 指定表名
func (OutboxMessage) TableName() string {
	return "contract_outbox_messages"
}

// OutboxEventPublisher 实现 domain.EventPublisher，使用 Outbox 模式
type OutboxEventPublisher struct {
	db *gorm.DB
}

// NewOutboxEventPublisher 创建新的 OutboxEventPublisher 实例
func NewOutboxEventPublisher(gormDB *gorm.DB) *OutboxEventPublisher {
	return &OutboxEventPublisher{db: gormDB}
}

// AutoMigrate 创建 outbox 表
func AutoMigrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(&OutboxMessage{})
}

// PublishInTx 写入 outbox；ctx 携带事务时与业务数据同事务提交
func (p *OutboxEventPublisher) PublishInTx(ctx context.Context, eventType, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	now := time.Now()
	message := OutboxMessage{
		ID:           uuid.New().String(),
		EventID:      uuid.New().String(),
		EventType:    eventType,
		AggregateKey: key,
		Payload:      string(payload),
		Status:       OutboxStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return db.Conn(ctx, p.db).Create(&message).Error
}
