package detail

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"portal-data/internal/logger"
	"portal-data/internal/metrics"
)

// KeyPrefix：Redis 中详情条目的键前缀
const KeyPrefix = "portal:detail:"

// ErrNoRedisClient：未配置 Redis 客户端时写入返回
var ErrNoRedisClient = errors.New("detail: redis client not configured")

// 文档注释：Redis 详情缓存
// 背景：多个前端实例共享同一份门户详情，值为 JSON，带 TTL；作为解析器第二层的外部来源。
// 约束：Get 不向上返回错误，超时/连接异常/反序列化失败均按未命中处理并记录 debug 日志。
type Redis struct {
	rc      *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// NewRedis：ttl<=0 取 24h，timeout<=0 取 200ms
func NewRedis(rc *redis.Client, ttl, timeout time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if timeout <= 0 {
		timeout = 200 * time.Millisecond
	}
	return &Redis{rc: rc, ttl: ttl, timeout: timeout}
}

func Key(guid string) string { return KeyPrefix + guid }

func (r *Redis) Get(guid string) (Detail, bool) {
	if r == nil || r.rc == nil {
		return Detail{}, false
	}
	t0 := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	s, err := r.rc.Get(ctx, Key(guid)).Result()
	metrics.DetailDurationMs.WithLabelValues("redis").Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.DetailRequestsTotal.WithLabelValues("redis", "miss").Inc()
		} else {
			metrics.DetailRequestsTotal.WithLabelValues("redis", "error").Inc()
			logger.L().Debug("detail_redis_get_error", "guid", guid, "err", err)
		}
		return Detail{}, false
	}
	var d Detail
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		metrics.DetailRequestsTotal.WithLabelValues("redis", "error").Inc()
		logger.L().Debug("detail_redis_decode_error", "guid", guid, "err", err)
		return Detail{}, false
	}
	metrics.DetailRequestsTotal.WithLabelValues("redis", "hit").Inc()
	return d, true
}

// Put：写入详情并设置 TTL
func (r *Redis) Put(ctx context.Context, d Detail) error {
	if r == nil || r.rc == nil {
		return ErrNoRedisClient
	}
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.rc.Set(ctx, Key(d.GUID), string(b), r.ttl).Err()
}
