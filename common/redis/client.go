package redis

import (
	"context"

	"github.com/go-redis/redis/v8"

	"aquasense-design/common/config"
)

// Client Redis 客户端类型别名
type Client = redis.Client

// Nil 键不存在
const Nil = redis.Nil

// NewRedisClient 创建 Redis 客户端
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping 测试连接
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close 关闭连接
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
