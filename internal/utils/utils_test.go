package utils

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSNFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PG_HOST", "PG_PORT", "PG_USER", "PG_PASSWORD", "PG_DB", "PG_SSLMODE"} {
		t.Setenv(k, "")
	}
	assert.Equal(t, "postgres://postgres@localhost:5432/portaldata?sslmode=disable", BuildPostgresDSNFromEnv())
}

func TestBuildPostgresDSNFromEnvOverrides(t *testing.T) {
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("PG_USER", "iitc")
	t.Setenv("PG_PASSWORD", "pw")
	t.Setenv("PG_DB", "intel")
	t.Setenv("PG_SSLMODE", "require")
	assert.Equal(t, "postgres://iitc:pw@db:6543/intel?sslmode=require", BuildPostgresDSNFromEnv())
}

func TestPostgresPoolFromEnv(t *testing.T) {
	t.Setenv("PG_MAX_OPEN_CONNS", "")
	t.Setenv("PG_MAX_IDLE_CONNS", "")
	open, idle := PostgresPoolFromEnv()
	assert.Equal(t, 20, open)
	assert.Equal(t, 10, idle)

	t.Setenv("PG_MAX_OPEN_CONNS", "5")
	t.Setenv("PG_MAX_IDLE_CONNS", "x")
	open, idle = PostgresPoolFromEnv()
	assert.Equal(t, 5, open)
	assert.Equal(t, 10, idle)
}

func TestRedisOptionsFromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASS", "secret")
	t.Setenv("REDIS_DB", "-3")
	o := RedisOptionsFromEnv()
	assert.Equal(t, "127.0.0.1:6379", o.Addr)
	assert.Equal(t, "secret", o.Password)
	assert.Equal(t, 0, o.DB)

	t.Setenv("REDIS_DB", "4")
	assert.Equal(t, 4, RedisOptionsFromEnv().DB)
}

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "certs", "server.key")

	require.NoError(t, EnsureSelfSignedCert(cert, key, "portal-data.local"))
	pair, err := tls.LoadX509KeyPair(cert, key)
	require.NoError(t, err)
	require.Len(t, pair.Certificate, 1)

	parsed, err := x509.ParseCertificate(pair.Certificate[0])
	require.NoError(t, err)
	assert.Equal(t, "portal-data.local", parsed.Subject.CommonName)
	assert.Contains(t, parsed.DNSNames, "localhost")

	// 已存在时不重写
	before, err := os.ReadFile(cert)
	require.NoError(t, err)
	require.NoError(t, EnsureSelfSignedCert(cert, key, "other"))
	after, err := os.ReadFile(cert)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
