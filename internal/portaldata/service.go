// 包 portaldata：门户数据查询入口，面向渲染层、面板与计分工具
package portaldata

import (
	"portal-data/internal/apgain"
	"portal-data/internal/detail"
	"portal-data/internal/geo"
	"portal-data/internal/logger"
	"portal-data/internal/poscache"
	"portal-data/internal/relation"
	"portal-data/internal/resolve"
	"portal-data/internal/scene"
)

// Deps：构造 Service 所需的协作者；Cache 为空时使用默认阈值新建
type Deps struct {
	Cache   *poscache.Cache
	Portals scene.PortalSource
	Links   scene.LinkSource
	Fields  scene.FieldSource
	Details detail.Source
	Rewards *apgain.Rewards
}

// 文档注释：门户数据服务
// 背景：组合位置缓存、解析器、关系索引与 AP 计算，对外提供一组按 guid/坐标的只读查询。
// 约束：所有查询以 (值, bool) 表达未命中，不返回错误；缓存只是加速器，调用方应把未命中理解为“未知”。
type Service struct {
	cache    *poscache.Cache
	portals  scene.PortalSource
	resolver *resolve.Resolver
	index    *relation.Index
	rewards  apgain.Rewards
}

func New(d Deps) *Service {
	cache := d.Cache
	if cache == nil {
		cache = poscache.New(poscache.Options{})
	}
	rewards := apgain.DefaultRewards()
	if d.Rewards != nil {
		rewards = *d.Rewards
	}
	return &Service{
		cache:    cache,
		portals:  d.Portals,
		resolver: resolve.New(cache, d.Portals, d.Links, d.Fields, d.Details),
		index:    relation.New(d.Links, d.Fields),
		rewards:  rewards,
	}
}

func (s *Service) GetPortalLinks(guid string) relation.Links { return s.index.LinksOf(guid) }

func (s *Service) GetPortalLinksCount(guid string) int { return s.index.LinkCount(guid) }

func (s *Service) GetPortalFields(guid string) []string { return s.index.FieldsOf(guid) }

func (s *Service) GetPortalFieldsCount(guid string) int { return s.index.FieldCount(guid) }

// FindPortalLatLng：综合渲染集合、详情缓存、控制场与链接查找门户坐标
func (s *Service) FindPortalLatLng(guid string) (geo.E6, bool) { return s.resolver.LatLngOf(guid) }

// FindPortalGuidByPositionE6：微度坐标反查 guid
func (s *Service) FindPortalGuidByPositionE6(latE6, lngE6 int32) (string, bool) {
	return s.resolver.GUIDAt(geo.New(latE6, lngE6))
}

// PushPortalGuidPositionCache：记录 guid 所在位置，供后续反查
func (s *Service) PushPortalGuidPositionCache(guid string, latE6, lngE6 int32) {
	s.cache.Record(guid, geo.New(latE6, lngE6))
}

// GetPortalApGain：仅对当前渲染中的门户可用，数据来自门户/链接/控制场摘要，并不完全精确
func (s *Service) GetPortalApGain(guid string) (apgain.Gain, bool) {
	if s.portals == nil {
		return apgain.Gain{}, false
	}
	p, ok := s.portals.Portal(guid)
	if !ok {
		return apgain.Gain{}, false
	}
	return apgain.Compute(s.rewards, p.ResCount, s.GetPortalLinksCount(guid), s.GetPortalFieldsCount(guid)), true
}

func (s *Service) PortalApGainMaths(resCount, linkCount, fieldCount int) apgain.Gain {
	return apgain.Compute(s.rewards, resCount, linkCount, fieldCount)
}

// WarmFromPortals：把当前渲染中的全部门户位置写入缓存，返回写入条数
func (s *Service) WarmFromPortals() int {
	if s.portals == nil {
		return 0
	}
	n := 0
	for _, p := range s.portals.Portals() {
		s.cache.Record(p.GUID, p.Coord)
		n++
	}
	logger.L().Debug("poscache_warm", "portals", n)
	return n
}

// CacheLen：位置缓存当前条目数
func (s *Service) CacheLen() int { return s.cache.Len() }
