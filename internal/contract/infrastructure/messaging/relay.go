package messaging

import (
	"context"
	"time"

	"github.com/wyfcoding/optionstracker/pkg/logger"
	"github.com/wyfcoding/optionstracker/pkg/metrics"
	"gorm.io/gorm"
)

// Producer 消息发送方，pkg/mq.KafkaProducer 实现该接口
type Producer interface {
	Send(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error
}

// RelayConfig 投递配置
type RelayConfig struct {
	Topic        string
	BatchSize    int
	PollInterval time.Duration
	Retention    time.Duration
}

// OutboxRelay 将 pending 消息投递到 Kafka 并标记为 sent
type OutboxRelay struct {
	db       *gorm.DB
	producer Producer
	cfg      RelayConfig
	metrics  *metrics.Metrics
}

// NewOutboxRelay 创建投递器
func NewOutboxRelay(gormDB *gorm.DB, producer Producer, cfg RelayConfig, m *metrics.Metrics) *OutboxRelay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &OutboxRelay{db: gormDB, producer: producer, cfg: cfg, metrics: m}
}

// Run 轮询投递直到 ctx 取消，每小时清理一次已投递消息
func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	cleanup := time.NewTicker(time.Hour)
	defer cleanup.Stop()

	logger.Info(ctx, "Outbox relay started", "topic", r.cfg.Topic, "interval", r.cfg.PollInterval)
	for {
		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "Outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.ProcessOutboxMessages(ctx); err != nil {
				logger.Error(ctx, "Outbox relay batch failed", "error", err)
			}
		case <-cleanup.C:
			if r.cfg.Retention > 0 {
				if _, err := r.CleanupProcessedMessages(ctx, time.Now().Add(-r.cfg.Retention)); err != nil {
					logger.Error(ctx, "Outbox cleanup failed", "error", err)
				}
			}
		}
	}
}

// ProcessOutboxMessages 按写入顺序投递一批消息，返回成功条数
// 单条失败时记录错误并停止本批，保证同一聚合的事件顺序
func (r *OutboxRelay) ProcessOutboxMessages(ctx context.Context) (int, error) {
	var messages []OutboxMessage
	if err := r.db.WithContext(ctx).
		Where("status = ?", OutboxStatusPending).
		Order("seq ASC").
		Limit(r.cfg.BatchSize).
		Find(&messages).Error; err != nil {
		return 0, err
	}

	sent := 0
	for i := range messages {
		msg := &messages[i]
		headers := map[string]string{
			"event_id":   msg.EventID,
			"event_type": msg.EventType,
		}
		if err := r.producer.Send(ctx, r.cfg.Topic, msg.AggregateKey, []byte(msg.Payload), headers); err != nil {
			r.metrics.RecordOutbox("failed", 1)
			if uerr := r.db.WithContext(ctx).Model(msg).Updates(map[string]any{
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": err.Error(),
			}).Error; uerr != nil {
				return sent, uerr
			}
			return sent, err
		}
		if err := r.db.WithContext(ctx).Model(msg).Update("status", OutboxStatusSent).Error; err != nil {
			return sent, err
		}
		sent++
	}
	r.metrics.RecordOutbox("sent", sent)
	if sent > 0 {
		logger.Debug(ctx, "Outbox messages delivered", "count", sent)
	}
	return sent, nil
}

// CleanupProcessedMessages 清理 before 之前已投递的消息
func (r *OutboxRelay) CleanupProcessedMessages(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", OutboxStatusSent, before).
		Delete(&OutboxMessage{})
	if result.Error == nil && result.RowsAffected > 0 {
		logger.Info(ctx, "Outbox cleanup finished", "deleted", result.RowsAffected, "before", before)
	}
	return result.RowsAffected, result.Error
}
