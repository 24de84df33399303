package resolve

import (
	"portal-data/internal/detail"
	"portal-data/internal/geo"
	"portal-data/internal/logger"
	"portal-data/internal/metrics"
	"portal-data/internal/poscache"
	"portal-data/internal/scene"
)

// 命中层级标签（指标与日志共用）
const (
	TierCache   = "cache"
	TierPortals = "portals"
	TierDetail  = "detail"
	TierFields  = "fields"
	TierLinks   = "links"
)

// 文档注释：实体解析器（缓存 → 门户 → 控制场顶点 → 链接端点）
// 背景：渲染集合只是已知实体的子集；详情缓存与链接/控制场的交叉引用可恢复未直接渲染的门户。
// 约束：各层按固定顺序依次查询，首个命中即返回；任一来源为 nil 时该层视为空。未找到是正常结果，不返回错误。
type Resolver struct {
	cache   *poscache.Cache
	portals scene.PortalSource
	links   scene.LinkSource
	fields  scene.FieldSource
	details detail.Source
}

func New(cache *poscache.Cache, portals scene.PortalSource, links scene.LinkSource, fields scene.FieldSource, details detail.Source) *Resolver {
	return &Resolver{cache: cache, portals: portals, links: links, fields: fields, details: details}
}

// GUIDAt：坐标反查门户 guid
func (r *Resolver) GUIDAt(pos geo.E6) (string, bool) {
	if guid, tier, ok := r.guidAt(pos); ok {
		metrics.ResolveTierTotal.WithLabelValues("guid", tier).Inc()
		return guid, true
	}
	metrics.ResolveTierTotal.WithLabelValues("guid", "none").Inc()
	logger.L().Debug("resolve_guid_miss", "pos", pos.Key())
	return "", false
}

func (r *Resolver) guidAt(pos geo.E6) (string, string, bool) {
	if r.cache != nil {
		if guid, ok := r.cache.Lookup(pos); ok {
			return guid, TierCache, true
		}
	}
	if r.portals != nil {
		for _, p := range r.portals.Portals() {
			if p.Coord == pos {
				return p.GUID, TierPortals, true
			}
		}
	}
	if r.fields != nil {
		for _, f := range r.fields.Fields() {
			for _, pt := range f.Points {
				if pt.Coord == pos {
					return pt.GUID, TierFields, true
				}
			}
		}
	}
	if r.links != nil {
		for _, l := range r.links.Links() {
			if l.Origin.Coord == pos {
				return l.Origin.GUID, TierLinks, true
			}
			if l.Dest.Coord == pos {
				return l.Dest.GUID, TierLinks, true
			}
		}
	}
	return "", "", false
}

// LatLngOf：guid 查坐标；渲染中的门户坐标优先，即使详情缓存给出不同值
func (r *Resolver) LatLngOf(guid string) (geo.E6, bool) {
	if pos, tier, ok := r.latLngOf(guid); ok {
		metrics.ResolveTierTotal.WithLabelValues("latlng", tier).Inc()
		return pos, true
	}
	metrics.ResolveTierTotal.WithLabelValues("latlng", "none").Inc()
	logger.L().Debug("resolve_latlng_miss", "guid", guid)
	return geo.E6{}, false
}

func (r *Resolver) latLngOf(guid string) (geo.E6, string, bool) {
	if r.portals != nil {
		if p, ok := r.portals.Portal(guid); ok {
			return p.Coord, TierPortals, true
		}
	}
	// 详情可能已过期，但用于定位足够
	if r.details != nil {
		if d, ok := r.details.Get(guid); ok {
			return d.Coord(), TierDetail, true
		}
	}
	if r.fields != nil {
		for _, f := range r.fields.Fields() {
			for _, pt := range f.Points {
				if pt.GUID == guid {
					return pt.Coord, TierFields, true
				}
			}
		}
	}
	if r.links != nil {
		for _, l := range r.links.Links() {
			if l.Origin.GUID == guid {
				return l.Origin.Coord, TierLinks, true
			}
			if l.Dest.GUID == guid {
				return l.Dest.Coord, TierLinks, true
			}
		}
	}
	return geo.E6{}, "", false
}
