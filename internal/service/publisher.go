package service

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	rediscommon "aquasense-design/common/redis"
)

// DefaultPredictionStream 推理结果输出流
const DefaultPredictionStream = "design:predictions"

// StreamPublisher 把推理结果写入 Redis Stream（data 字段为 JSON）
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultPredictionStream
	}
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, result *DesignResult) error {
	if _, err := rediscommon.PublishJSONToStream(ctx, p.client, p.stream, result); err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	return nil
}
