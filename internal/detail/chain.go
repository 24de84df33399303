package detail

import (
	"context"
	"errors"
)

// Chain：按顺序查询多个来源，首个命中即返回；nil 来源跳过
type Chain struct {
	list []Source
}

func NewChain(list ...Source) *Chain {
	return &Chain{list: list}
}

func (c *Chain) Get(guid string) (Detail, bool) {
	for _, s := range c.list {
		if s == nil {
			continue
		}
		if d, ok := s.Get(guid); ok {
			return d, true
		}
	}
	return Detail{}, false
}

// Fanout：把一次写入分发到所有目标，单个目标失败不阻断其余目标，错误合并返回
type Fanout struct {
	list []Writer
}

func NewFanout(list ...Writer) *Fanout {
	return &Fanout{list: list}
}

func (f *Fanout) Put(ctx context.Context, d Detail) error {
	var errs []error
	for _, w := range f.list {
		if w == nil {
			continue
		}
		if err := w.Put(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
