// 程序入口：读取配置、装配场景/缓存/详情来源并启动 HTTP 服务；查询逻辑在 internal/portaldata
package main

import (
	"context"
	"net/http"
	"os"

	"portal-data/internal/api"
	"portal-data/internal/config"
	"portal-data/internal/detail"
	"portal-data/internal/logger"
	"portal-data/internal/metrics"
	"portal-data/internal/middleware"
	"portal-data/internal/migrate"
	"portal-data/internal/portaldata"
	"portal-data/internal/poscache"
	"portal-data/internal/scene"
	"portal-data/internal/store"
	"portal-data/internal/utils"
)

func main() {
	cfg := config.Load()
	l := logger.Setup()
	l.Debug("log_init_ok")
	l.Debug("config_loaded", "addr", cfg.Addr, "api_base", cfg.APIBase, "scene", cfg.ScenePath, "gc_limit", cfg.GCLimit, "gc_keep", cfg.GCKeep)

	reg, err := scene.LoadFile(cfg.ScenePath)
	if err != nil {
		l.Error("scene_load_error", "err", err)
		os.Exit(1)
	}

	// 详情来源链：进程内 → Redis → PostgreSQL；写入同时分发到全部已启用后端
	mem := detail.NewMemory()
	sources := []detail.Source{mem}
	sinks := []detail.Writer{mem}
	if cfg.DetailRedisEnabled {
		rc := utils.OpenRedisFromEnv()
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
			rds := detail.NewRedis(rc, cfg.DetailRedisTTL, 0)
			sources = append(sources, rds)
			sinks = append(sinks, rds)
		}
	} else {
		l.Info("redis_disabled")
	}
	if cfg.DetailPGEnabled {
		maxOpen, maxIdle := utils.PostgresPoolFromEnv()
		st, err := store.Open(utils.BuildPostgresDSNFromEnv(), maxOpen, maxIdle)
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.DB().Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else if err := migrate.EnsureSchema(st.DB()); err != nil {
			l.Error("schema_error", "err", err)
		} else {
			l.Info("db_ready")
			sources = append(sources, st)
			sinks = append(sinks, st)
		}
	} else {
		l.Info("db_disabled")
	}

	cache := poscache.New(poscache.Options{GCLimit: cfg.GCLimit, GCKeep: cfg.GCKeep})
	rewards := cfg.Rewards
	svc := portaldata.New(portaldata.Deps{
		Cache:   cache,
		Portals: reg,
		Links:   reg,
		Fields:  reg,
		Details: detail.NewChain(sources...),
		Rewards: &rewards,
	})
	n := svc.WarmFromPortals()
	l.Info("poscache_warm", "portals", n, "size", svc.CacheLen())

	mux := http.NewServeMux()
	sink := detail.NewFanout(sinks...)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, api.BuildRoutes(svc, sink)))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())

	var handler http.Handler = mux
	if cfg.RateLimitEnabled {
		handler = middleware.RateLimit(cfg.RateLimitQPS, handler)
	}
	handler = logger.AccessMiddleware(l)(handler)

	s := &http.Server{Addr: cfg.Addr, Handler: handler}
	if cfg.TLSEnabled {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "portal-data.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
}

