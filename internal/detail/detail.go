// 包 detail：门户详情缓存（带外查询得到、可能过期），解析器仅用其坐标
package detail

import (
	"context"
	"sync"

	"portal-data/internal/geo"
)

// Detail：门户详情中本模块关心的字段，坐标为原生微度整数
type Detail struct {
	GUID     string `json:"guid"`
	LatE6    int32  `json:"latE6"`
	LngE6    int32  `json:"lngE6"`
	Title    string `json:"title,omitempty"`
	Level    int    `json:"level,omitempty"`
	ResCount int    `json:"resCount,omitempty"`
	Team     string `json:"team,omitempty"`
}

func (d Detail) Coord() geo.E6 { return geo.New(d.LatE6, d.LngE6) }

// Source：按 guid 读取详情；未命中与后端异常一律返回 false
type Source interface {
	Get(guid string) (Detail, bool)
}

// Writer：写入或覆盖详情
type Writer interface {
	Put(ctx context.Context, d Detail) error
}

// Memory：进程内详情缓存
type Memory struct {
	mu sync.RWMutex
	m  map[string]Detail
}

func NewMemory() *Memory { return &Memory{m: make(map[string]Detail)} }

func (c *Memory) Get(guid string) (Detail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.m[guid]
	return d, ok
}

func (c *Memory) Put(_ context.Context, d Detail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[d.GUID] = d
	return nil
}

func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
