package utils

import (
	"os"
	"strconv"
)

// BuildPostgresDSNFromEnv：由 PG_* 环境变量拼接 DSN，缺省连接本机 portaldata 库
func BuildPostgresDSNFromEnv() string {
	host := os.Getenv("PG_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("PG_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("PG_USER")
	if user == "" {
		user = "postgres"
	}
	pass := os.Getenv("PG_PASSWORD")
	db := os.Getenv("PG_DB")
	if db == "" {
		db = "portaldata"
	}
	ssl := os.Getenv("PG_SSLMODE")
	if ssl == "" {
		ssl = "disable"
	}
	dsn := "postgres://" + user
	if pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + host + ":" + port + "/" + db + "?sslmode=" + ssl
	return dsn
}

// PostgresPoolFromEnv：连接池大小，PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 可覆盖，缺省 20/10
func PostgresPoolFromEnv() (maxOpen, maxIdle int) {
	maxOpen, maxIdle = 20, 10
	if v := os.Getenv("PG_MAX_OPEN_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxOpen = n
		}
	}
	if v := os.Getenv("PG_MAX_IDLE_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxIdle = n
		}
	}
	return maxOpen, maxIdle
}
