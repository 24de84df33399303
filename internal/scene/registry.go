package scene

import "sync"

// 文档注释：只读快照
// 背景：扫描期间共享同一份不可变副本，宿主并发修改注册表不会影响进行中的查找。
// 约束：切片保持写入顺序，扫描结果按该顺序返回；调用方不得修改返回的切片。
type Snapshot struct {
	portals []Portal
	byGUID  map[string]int
	links   []Link
	fields  []Field
}

// NewSnapshot：由三组实体直接构造快照，重复 guid 以后者为准
func NewSnapshot(portals []Portal, links []Link, fields []Field) *Snapshot {
	s := &Snapshot{byGUID: make(map[string]int, len(portals))}
	for _, p := range portals {
		if i, ok := s.byGUID[p.GUID]; ok {
			s.portals[i] = p
			continue
		}
		s.byGUID[p.GUID] = len(s.portals)
		s.portals = append(s.portals, p)
	}
	s.links = append([]Link(nil), links...)
	s.fields = append([]Field(nil), fields...)
	return s
}

func (s *Snapshot) Portal(guid string) (Portal, bool) {
	if s == nil {
		return Portal{}, false
	}
	i, ok := s.byGUID[guid]
	if !ok {
		return Portal{}, false
	}
	return s.portals[i], true
}

func (s *Snapshot) Portals() []Portal {
	if s == nil {
		return nil
	}
	return s.portals
}

func (s *Snapshot) Links() []Link {
	if s == nil {
		return nil
	}
	return s.links
}

func (s *Snapshot) Fields() []Field {
	if s == nil {
		return nil
	}
	return s.fields
}

// 文档注释：可变的实体注册表（宿主侧写入）
// 背景：对应渲染层的全局门户/链接/控制场集合；写入按 guid 去重并保留首次出现的顺序。
// 约束：读方法每次基于当前内容生成快照，写入后立即对后续读取生效；线程安全。
type Registry struct {
	mu      sync.RWMutex
	portals map[string]Portal
	links   map[string]Link
	fields  map[string]Field
	pOrder  []string
	lOrder  []string
	fOrder  []string
}

func NewRegistry() *Registry {
	return &Registry{portals: make(map[string]Portal), links: make(map[string]Link), fields: make(map[string]Field)}
}

func (r *Registry) PutPortal(p Portal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.portals[p.GUID]; !ok {
		r.pOrder = append(r.pOrder, p.GUID)
	}
	r.portals[p.GUID] = p
}

func (r *Registry) PutLink(l Link) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[l.GUID]; !ok {
		r.lOrder = append(r.lOrder, l.GUID)
	}
	r.links[l.GUID] = l
}

func (r *Registry) PutField(f Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[f.GUID]; !ok {
		r.fOrder = append(r.fOrder, f.GUID)
	}
	r.fields[f.GUID] = f
}

func (r *Registry) RemovePortal(guid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.portals[guid]; ok {
		delete(r.portals, guid)
		r.pOrder = without(r.pOrder, guid)
	}
}

func (r *Registry) RemoveLink(guid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[guid]; ok {
		delete(r.links, guid)
		r.lOrder = without(r.lOrder, guid)
	}
}

func (r *Registry) RemoveField(guid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[guid]; ok {
		delete(r.fields, guid)
		r.fOrder = without(r.fOrder, guid)
	}
}

func without(list []string, guid string) []string {
	out := list[:0]
	for _, g := range list {
		if g != guid {
			out = append(out, g)
		}
	}
	return out
}

// Snapshot：按当前内容生成不可变快照
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return NewSnapshot(r.portalList(), r.linkList(), r.fieldList())
}

// 以下 *List 按写入顺序复制单一集合；调用方持读锁
func (r *Registry) portalList() []Portal {
	ps := make([]Portal, 0, len(r.pOrder))
	for _, g := range r.pOrder {
		ps = append(ps, r.portals[g])
	}
	return ps
}

func (r *Registry) linkList() []Link {
	ls := make([]Link, 0, len(r.lOrder))
	for _, g := range r.lOrder {
		ls = append(ls, r.links[g])
	}
	return ls
}

func (r *Registry) fieldList() []Field {
	fs := make([]Field, 0, len(r.fOrder))
	for _, g := range r.fOrder {
		fs = append(fs, r.fields[g])
	}
	return fs
}

func (r *Registry) Portal(guid string) (Portal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.portals[guid]
	return p, ok
}

// Portals/Links/Fields 只复制各自的集合，返回的切片归调用方所有
func (r *Registry) Portals() []Portal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.portalList()
}

func (r *Registry) Links() []Link {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.linkList()
}

func (r *Registry) Fields() []Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fieldList()
}
