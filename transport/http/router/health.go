package router

import (
	"context"
	"net/http"
	"sort"
	"time"

	"cowork/infras/postgres"
	"cowork/transport/http/response"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const checkTimeout = 2 * time.Second

// Check reports whether a dependency can take traffic.
type Check func(ctx context.Context) error

type HealthChecks map[string]Check

func NewHealthChecks(db *postgres.Connection, client *goRedis.Client) HealthChecks {
	return HealthChecks{
		"postgres": db.Ping,
		"redis": func(ctx context.Context) error {
			return client.Ping(ctx).Err() //nolint:wrapcheck
		},
	}
}

// readiness answers 503 while any check fails so the load balancer stops routing bookings here.
func (p HealthChecks) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := p[name](ctx); err != nil {
			log.Error().Err(err).Str("dependency", name).Msg("readiness check failed")
			response.WithUnhealthy(w)

			return
		}
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
