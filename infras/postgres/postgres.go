package postgres

//nolint:revive
import (
	"context"
	"net"
	"net/url"
	"time"

	"cowork/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	defaultMaxIdleConns = 10
	defaultMaxOpenConns = 10
)

// Connection splits reads from writes. Both may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: connect(cfg, "write", cfg.DB.Postgres.Write),
	}
}

// DSN builds a lib/pq URL for node. extra is appended to the query string.
func DSN(cfg *config.Config, node config.PostgresNode, extra url.Values) string {
	query := url.Values{}
	query.Set("sslmode", node.SSLMode)

	if node.Timezone != "" {
		query.Set("timezone", node.Timezone)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + node.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Ping checks both pools. Used by the readiness check.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Read == nil || c.Write == nil {
		return errors.New("postgres is not connected")
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return errors.Wrap(err, "postgres read")
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return errors.Wrap(err, "postgres write")
	}

	return nil
}

func (c *Connection) Close() {
	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close postgres pool")
		}
	}
}

func connect(cfg *config.Config, name string, node config.PostgresNode) *sqlx.DB {
	dsn := DSN(cfg, node, nil)
	dbName := cfg.DB.Postgres.Prefix + node.Name
	attempts := max(cfg.DB.Postgres.MaxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(orDefault(cfg.DB.Postgres.MaxIdleConns, defaultMaxIdleConns))
			db.SetMaxOpenConns(orDefault(cfg.DB.Postgres.MaxOpenConns, defaultMaxOpenConns))

			log.Info().
				Str("name", name).
				Str("host", node.Host).
				Str("dbName", dbName).
				Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("name", name).
			Str("host", node.Host).
			Str("dbName", dbName).
			Int("attempt", attempt).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second)
	}

	log.Error().Str("name", name).Msg("Giving up on database connection")

	return nil
}

func orDefault(value, fallback int) int {
	if value > 0 {
		return value
	}

	return fallback
}
