package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"aquasense-design/internal/models"
)

const designKeyPrefix = "aquasense:design:"

// DesignCache 推理响应缓存，键为特征向量
//
// 缓存读写失败只记录日志，不影响推理结果。
type DesignCache struct {
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
}

// NewDesignCache 创建响应缓存；ttl<=0 表示不过期
func NewDesignCache(kv KV, ttl time.Duration, logger *zap.Logger) *DesignCache {
	return &DesignCache{kv: kv, ttl: ttl, logger: logger}
}

// DesignKey 特征向量 -> 缓存键（数值用最短无损格式）
func DesignKey(f models.Features) string {
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return designKeyPrefix + strings.Join(parts, ",")
}

// Get 命中返回响应；未命中或解析失败返回 nil
func (c *DesignCache) Get(ctx context.Context, f models.Features) *models.DesignResponse {
	raw, err := c.kv.Get(ctx, DesignKey(f))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Warn("Design cache read failed", zap.Error(err))
		}
		return nil
	}

	var resp models.DesignResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.Warn("Design cache entry corrupted", zap.String("key", DesignKey(f)), zap.Error(err))
		return nil
	}
	return &resp
}

// Put 写入缓存
func (c *DesignCache) Put(ctx context.Context, f models.Features, resp *models.DesignResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("Design cache encode failed", zap.Error(err))
		return
	}
	if err := c.kv.Set(ctx, DesignKey(f), string(b), c.ttl); err != nil {
		c.logger.Warn("Design cache write failed", zap.Error(err))
	}
}

// Size 当前缓存条目数
func (c *DesignCache) Size(ctx context.Context) (int, error) {
	keys, err := c.kv.ScanKeys(ctx, designKeyPrefix+"*")
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Purge 清空全部缓存条目（预测器更换后调用）
func (c *DesignCache) Purge(ctx context.Context) (int64, error) {
	keys, err := c.kv.ScanKeys(ctx, designKeyPrefix+"*")
	if err != nil {
		return 0, err
	}
	return c.kv.Del(ctx, keys...)
}
