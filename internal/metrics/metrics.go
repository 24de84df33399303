package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PosCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portaldata_poscache_hits_total",
		Help: "Total position cache lookups that found a guid",
	})
	PosCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portaldata_poscache_misses_total",
		Help: "Total position cache lookups that found nothing",
	})
	PosCacheRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portaldata_poscache_records_total",
		Help: "Total guid/position pairs pushed into the position cache",
	})
	PosCacheGCTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portaldata_poscache_gc_total",
		Help: "Total garbage collection passes of the position cache",
	})
	PosCacheEvictedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portaldata_poscache_evicted_total",
		Help: "Total entries dropped by position cache garbage collection",
	})
	PosCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "portaldata_poscache_size",
		Help: "Current number of entries in the position cache",
	})
	ResolveTierTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portaldata_resolve_tier_total",
		Help: "Resolver answers by operation and the tier that produced them",
	}, []string{"op", "tier"})
	DetailRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portaldata_detail_requests_total",
		Help: "Point detail cache reads by backend and outcome",
	}, []string{"backend", "outcome"})
	DetailDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portaldata_detail_duration_ms",
		Help:    "Point detail cache read duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"backend"})
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portaldata_requests_total",
		Help: "Total API requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portaldata_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
)

func init() {
	prometheus.MustRegister(PosCacheHitsTotal)
	prometheus.MustRegister(PosCacheMissesTotal)
	prometheus.MustRegister(PosCacheRecordsTotal)
	prometheus.MustRegister(PosCacheGCTotal)
	prometheus.MustRegister(PosCacheEvictedTotal)
	prometheus.MustRegister(PosCacheSize)
	prometheus.MustRegister(ResolveTierTotal)
	prometheus.MustRegister(DetailRequestsTotal)
	prometheus.MustRegister(DetailDurationMs)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
