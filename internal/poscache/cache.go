package poscache

import (
	"sort"
	"sync"
	"time"

	"portal-data/internal/geo"
	"portal-data/internal/logger"
	"portal-data/internal/metrics"
)

const (
	// 累计写入数超过该值时触发回收
	DefaultGCLimit = 15000
	// 回收后保留的最新条目数
	DefaultGCKeep = 10000
)

// 文档注释：坐标 → guid 的有界缓存
// 背景：门户按微度坐标精确定位；渲染层每次见到门户都会推送一次，缓存用于在门户离开视野后仍能反查 guid。
// 约束：按写入时间而非访问时间回收，Lookup 不刷新时间戳；回收在触发写入的 Record 中同步完成，O(n log n)。
type Cache struct {
	mu      sync.Mutex
	limit   int
	keep    int
	now     func() time.Time
	entries map[geo.E6]entry
	level   int
	seq     uint64
}

type entry struct {
	guid string
	at   time.Time
	seq  uint64
}

// Options：回收阈值与时钟；零值取默认
type Options struct {
	GCLimit int
	GCKeep  int
	Now     func() time.Time
}

func New(opts Options) *Cache {
	c := &Cache{limit: opts.GCLimit, keep: opts.GCKeep, now: opts.Now, entries: make(map[geo.E6]entry)}
	if c.limit <= 0 {
		c.limit = DefaultGCLimit
	}
	c.keep = NormalizeKeep(c.limit, c.keep)
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// NormalizeKeep：keep<=0 取默认；keep 不小于 limit 时取 limit 的 2/3
// 约束：回收后的条目数必须低于阈值，否则下一次写入会立即再次回收
func NormalizeKeep(limit, keep int) int {
	if keep <= 0 {
		keep = DefaultGCKeep
	}
	if keep >= limit {
		keep = limit * 2 / 3
	}
	return keep
}

// Lookup：精确坐标查找
func (c *Cache) Lookup(pos geo.E6) (string, bool) {
	c.mu.Lock()
	e, ok := c.entries[pos]
	c.mu.Unlock()
	if !ok {
		metrics.PosCacheMissesTotal.Inc()
		return "", false
	}
	metrics.PosCacheHitsTotal.Inc()
	return e.guid, true
}

// Record：写入或覆盖 pos 对应的 guid，必要时执行回收
func (c *Cache) Record(guid string, pos geo.E6) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.entries[pos] = entry{guid: guid, at: c.now(), seq: c.seq}
	c.level++
	metrics.PosCacheRecordsTotal.Inc()
	if c.level > c.limit {
		c.gc()
	}
	metrics.PosCacheSize.Set(float64(len(c.entries)))
}

// gc：按写入时间降序保留前 keep 条；调用方持锁
func (c *Cache) gc() {
	before := len(c.entries)
	if before > c.keep {
		keys := make([]geo.E6, 0, before)
		for k := range c.entries {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := c.entries[keys[i]], c.entries[keys[j]]
			if !a.at.Equal(b.at) {
				return a.at.After(b.at)
			}
			return a.seq > b.seq
		})
		for _, k := range keys[c.keep:] {
			delete(c.entries, k)
		}
	}
	c.level = len(c.entries)
	evicted := before - c.level
	metrics.PosCacheGCTotal.Inc()
	metrics.PosCacheEvictedTotal.Add(float64(evicted))
	logger.L().Debug("poscache_gc", "before", before, "after", c.level, "evicted", evicted)
}

// Len：当前条目数
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Level：自上次回收以来的累计写入计数（回收后重置为条目数）
func (c *Cache) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}
