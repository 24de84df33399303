// 包 config：集中读取 .env 与环境变量，未配置或解析失败的数值回退到默认值
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"portal-data/internal/apgain"
	"portal-data/internal/poscache"
)

type Config struct {
	Addr      string
	APIBase   string
	ScenePath string

	GCLimit int
	GCKeep  int

	Rewards apgain.Rewards

	DetailRedisEnabled bool
	DetailRedisTTL     time.Duration
	DetailPGEnabled    bool

	RateLimitEnabled bool
	RateLimitQPS     int

	TLSEnabled  bool
	TLSCertPath string
	TLSKeyPath  string
}

// LoadDotEnv：依次加载 .env 与 data/env/.env，已存在的环境变量不被覆盖
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// Load：加载 .env 后读取环境变量
func Load() Config {
	LoadDotEnv()
	return FromEnv()
}

// FromEnv：仅读取当前进程环境
func FromEnv() Config {
	def := apgain.DefaultRewards()
	c := Config{
		Addr:      str("ADDR", ":8080"),
		APIBase:   strings.TrimRight(str("API_BASE", "/api"), "/"),
		ScenePath: str("SCENE_PATH", filepath.Join("data", "scene.json")),
		GCLimit:   num("POSCACHE_GC_LIMIT", poscache.DefaultGCLimit),
		GCKeep:    num("POSCACHE_GC_KEEP", poscache.DefaultGCKeep),
		Rewards: apgain.Rewards{
			DeployResonator:  num("AP_DEPLOY_RESONATOR", def.DeployResonator),
			CapturePortal:    num("AP_CAPTURE_PORTAL", def.CapturePortal),
			CompletionBonus:  num("AP_COMPLETION_BONUS", def.CompletionBonus),
			DestroyResonator: num("AP_DESTROY_RESONATOR", def.DestroyResonator),
			DestroyLink:      num("AP_DESTROY_LINK", def.DestroyLink),
			DestroyField:     num("AP_DESTROY_FIELD", def.DestroyField),
		},
		DetailRedisEnabled: os.Getenv("DETAIL_REDIS_ENABLED") == "true",
		DetailRedisTTL:     time.Duration(num("DETAIL_REDIS_TTL_S", 86400)) * time.Second,
		DetailPGEnabled:    os.Getenv("DETAIL_PG_ENABLED") == "true",
		RateLimitEnabled:   os.Getenv("RATE_LIMIT_ENABLED") == "true",
		RateLimitQPS:       num("RATE_LIMIT_QPS", 200),
		TLSEnabled:         os.Getenv("TLS_ENABLE") == "true",
		TLSCertPath:        str("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:         str("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
	}
	if c.GCLimit <= 0 {
		c.GCLimit = poscache.DefaultGCLimit
	}
	c.GCKeep = poscache.NormalizeKeep(c.GCLimit, c.GCKeep)
	return c
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// num：非负整数环境变量
func num(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return def
	}
	return n
}
