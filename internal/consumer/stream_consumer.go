package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	rediscommon "aquasense-design/common/redis"
	"aquasense-design/internal/config"
	"aquasense-design/internal/models"
	"aquasense-design/internal/service"
)

// StreamConsumer Redis Streams 批量请求消费者
//
// 消息字段 data 为进水样本 JSON，可选字段 site。
// 处理完（无论成功与否）都会 ACK，失败只记录日志，坏消息不会反复投递。
type StreamConsumer struct {
	config      *config.StreamsConfig
	redisClient *redis.Client
	predictor   DesignPredictor
	logger      *zap.Logger
	idleWait    time.Duration
}

// defaultIdleWait 非阻塞模式下空读后的等待时间
const defaultIdleWait = 500 * time.Millisecond

// NewStreamConsumer 创建 Streams 消费者
func NewStreamConsumer(cfg *config.StreamsConfig, redisClient *redis.Client, predictor DesignPredictor, logger *zap.Logger) *StreamConsumer {
	return &StreamConsumer{
		config:      cfg,
		redisClient: redisClient,
		predictor:   predictor,
		logger:      logger,
		idleWait:    defaultIdleWait,
	}
}

// Start 创建消费者组后进入消费循环，直到 ctx 取消
func (c *StreamConsumer) Start(ctx context.Context) error {
	if err := rediscommon.CreateConsumerGroup(ctx, c.redisClient, c.config.Requests, c.config.ConsumerGroup); err != nil {
		return fmt.Errorf("failed to create consumer group for %s: %w", c.config.Requests, err)
	}

	c.logger.Info("Stream consumer started",
		zap.String("stream", c.config.Requests),
		zap.String("consumer_group", c.config.ConsumerGroup),
		zap.String("consumer_name", c.config.ConsumerName),
	)

	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := c.consumeStream(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to consume stream",
				zap.String("stream", c.config.Requests),
				zap.Error(err),
				zap.Duration("backoff", backoffDuration),
			)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoffDuration):
				backoffDuration *= 2
				if backoffDuration > maxBackoff {
					backoffDuration = maxBackoff
				}
			}
			continue
		}
		backoffDuration = time.Second

		// 非阻塞读取时空流需要让出，避免空转
		if n == 0 && c.config.Block <= 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.idleWait):
			}
		}
	}
}

// consumeStream 读一批消息并逐条处理，返回处理条数
func (c *StreamConsumer) consumeStream(ctx context.Context) (int, error) {
	messages, err := rediscommon.ReadFromStream(
		ctx,
		c.redisClient,
		c.config.Requests,
		c.config.ConsumerGroup,
		c.config.ConsumerName,
		c.config.BatchSize,
		c.config.Block,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to read from stream %s: %w", c.config.Requests, err)
	}

	for _, msg := range messages {
		if err := c.processMessage(ctx, msg); err != nil {
			c.logger.Error("Failed to process message",
				zap.String("stream", msg.Stream),
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
		if err := rediscommon.Ack(ctx, c.redisClient, msg.Stream, c.config.ConsumerGroup, msg.ID); err != nil {
			c.logger.Error("Failed to ack message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}
	return len(messages), nil
}

// processMessage 处理单条消息
func (c *StreamConsumer) processMessage(ctx context.Context, msg rediscommon.StreamMessage) error {
	raw, ok := msg.Values["data"].(string)
	if !ok {
		return &models.InputError{Field: "data", Value: msg.Values["data"], Reason: "missing or not a string"}
	}
	site, _ := msg.Values["site"].(string)

	sample, err := models.ParseInfluentRequest([]byte(raw))
	if err != nil {
		return err
	}

	if _, err := c.predictor.Predict(ctx, sample, service.SourceStream, site); err != nil {
		return fmt.Errorf("failed to predict design: %w", err)
	}
	return nil
}
