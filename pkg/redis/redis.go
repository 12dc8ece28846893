package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/config"
)

// Client Redis 客户端封装
// 用于发布就绪报告缓存与写接口限流；状态流转校验从不读取缓存
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// NewFromClient 包装已有的 go-redis 客户端
func NewFromClient(rdb *goredis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── 就绪报告缓存 ──

const readinessPrefix = "term:readiness:"

// GetReadiness 读取缓存的就绪报告，未命中时返回 false
func (c *Client) GetReadiness(ctx context.Context, termID string, dest interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, readinessPrefix+termID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("解析就绪报告缓存失败: %w", err)
	}
	return true, nil
}

// SetReadiness 写入就绪报告缓存
func (c *Client) SetReadiness(ctx context.Context, termID string, report interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("序列化就绪报告失败: %w", err)
	}
	return c.rdb.Set(ctx, readinessPrefix+termID, raw, ttl).Err()
}

// InvalidateReadiness 删除指定学期的就绪报告缓存
func (c *Client) InvalidateReadiness(ctx context.Context, termIDs ...string) error {
	if len(termIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(termIDs))
	for _, id := range termIDs {
		keys = append(keys, readinessPrefix+id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ── 限流 ──

const rateLimitPrefix = "term:ratelimit:"

// CheckRateLimit 固定窗口计数限流，窗口内请求数不超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitPrefix + key
	var incr *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.ExpireNX(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
