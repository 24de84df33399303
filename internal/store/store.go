// 包 store: 门户详情的 PostgreSQL 持久层，作为详情缓存链的最后一级
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"

	"portal-data/internal/detail"
	"portal-data/internal/logger"
	"portal-data/internal/metrics"
)

// Store: 持有连接池并提供详情读写
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db, timeout: 500 * time.Millisecond} }

// Open: 使用 DSN 打开数据库连接并配置连接池参数；不建立连接，可用性由调用方 Ping 确认
func Open(dsn string, maxOpen, maxIdle int) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	return AttachDB(db), nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB: 供建表与健康检查使用的底层连接池
func (s *Store) DB() *sql.DB { return s.db }

// LookupDetail: 按 guid 读取详情；未命中返回 (nil, nil)
func (s *Store) LookupDetail(ctx context.Context, guid string) (*detail.Detail, error) {
	row := s.db.QueryRowContext(ctx, `SELECT guid, lat_e6, lng_e6, title, level, res_count, team FROM _portal_details WHERE guid=$1`, guid)
	var d detail.Detail
	if err := row.Scan(&d.GUID, &d.LatE6, &d.LngE6, &d.Title, &d.Level, &d.ResCount, &d.Team); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// Get: 实现 detail.Source；数据库异常按未命中处理
func (s *Store) Get(guid string) (detail.Detail, bool) {
	t0 := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	d, err := s.LookupDetail(ctx, guid)
	metrics.DetailDurationMs.WithLabelValues("postgres").Observe(float64(time.Since(t0).Milliseconds()))
	if err != nil {
		metrics.DetailRequestsTotal.WithLabelValues("postgres", "error").Inc()
		logger.L().Debug("detail_pg_lookup_error", "guid", guid, "err", err)
		return detail.Detail{}, false
	}
	if d == nil {
		metrics.DetailRequestsTotal.WithLabelValues("postgres", "miss").Inc()
		return detail.Detail{}, false
	}
	metrics.DetailRequestsTotal.WithLabelValues("postgres", "hit").Inc()
	return *d, true
}

// UpsertDetail: 写入或覆盖详情，刷新 updated_at
func (s *Store) UpsertDetail(ctx context.Context, d detail.Detail) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO _portal_details(guid, lat_e6, lng_e6, title, level, res_count, team)
        VALUES($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (guid) DO UPDATE SET lat_e6=EXCLUDED.lat_e6, lng_e6=EXCLUDED.lng_e6, title=EXCLUDED.title,
            level=EXCLUDED.level, res_count=EXCLUDED.res_count, team=EXCLUDED.team, updated_at=now()`,
		d.GUID, d.LatE6, d.LngE6, d.Title, d.Level, d.ResCount, d.Team,
	)
	if err == nil {
		logger.L().Debug("detail_pg_upsert", "guid", d.GUID)
	}
	return err
}

// Put: 实现 detail.Writer
func (s *Store) Put(ctx context.Context, d detail.Detail) error { return s.UpsertDetail(ctx, d) }
