// Package app wires the engine, services, and HTTP layer together.
package app

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"sqlcanvas/internal/api"
	"sqlcanvas/internal/config"
	"sqlcanvas/internal/engine"
	"sqlcanvas/internal/service"
)

// Deps holds the external dependencies that main() must provide: the
// DuckDB handle, config, and the root logger.
type Deps struct {
	Cfg    *config.Config
	DB     *sql.DB
	Logger *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Engine  *engine.Engine
	Query   *service.QueryService
	Handler *api.Handler
	Router  chi.Router
}

// New wires the engine, query service, handler, and router from deps.
func New(deps Deps) *App {
	eng := engine.NewEngine(deps.DB, deps.Logger.With("component", "engine"))
	querySvc := service.NewQueryService(eng, deps.Cfg.QueryTimeout, deps.Logger.With("component", "query"))
	handler := api.NewHandler(querySvc, deps.Logger.With("component", "api"))

	return &App{
		Engine:  eng,
		Query:   querySvc,
		Handler: handler,
		Router:  api.NewRouter(handler, deps.Cfg, deps.Logger.With("component", "http")),
	}
}
