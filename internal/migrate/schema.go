package migrate

import (
	"database/sql"

	"portal-data/internal/logger"
)

// 背景：首次运行自动创建门户详情表与坐标索引
// 约束：使用 IF NOT EXISTS，可重复执行
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _portal_details (
            guid TEXT PRIMARY KEY,
            lat_e6 INT NOT NULL,
            lng_e6 INT NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            level INT NOT NULL DEFAULT 0,
            res_count INT NOT NULL DEFAULT 0,
            team TEXT NOT NULL DEFAULT '',
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_portal_details_pos ON _portal_details(lat_e6, lng_e6)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
