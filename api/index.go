package handler

import (
	"net/http"
	"sync"

	"cowork/config"
	"cowork/di"
	"cowork/shared/logger"
	transport "cowork/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler is the serverless entry point. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.Setup(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
