package postgres_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowork/config"
	"cowork/infras/postgres"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "dev_"

	node := config.PostgresNode{
		Host:     "db.internal",
		Port:     "5432",
		Username: "cowork",
		Password: "p@ss/w:rd",
		Name:     "cowork",
		SSLMode:  "disable",
		Timezone: "Asia/Jakarta",
	}

	dsn := postgres.DSN(cfg, node, url.Values{"x-migrations-table": {"schema_migrations"}})

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)

	password, _ := parsed.User.Password()
	assert.Equal(t, "p@ss/w:rd", password)
	assert.Equal(t, "cowork", parsed.User.Username())
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/dev_cowork", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Asia/Jakarta", parsed.Query().Get("timezone"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestConnection_PingWithoutPools(t *testing.T) {
	err := (&postgres.Connection{}).Ping(t.Context())

	assert.EqualError(t, err, "postgres is not connected")
}
