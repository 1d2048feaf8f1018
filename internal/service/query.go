// Package service hosts the application services sitting between the HTTP
// layer and the engine.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"sqlcanvas/internal/domain"
	"sqlcanvas/internal/middleware"
)

// Runner executes node-reference queries. Satisfied by *engine.Engine.
type Runner interface {
	Run(ctx context.Context, query string, lookup domain.Lookup) (*domain.QueryResult, error)
	Ping(ctx context.Context) error
}

// QueryService applies the request-level timeout around the engine and
// records per-request outcome logs.
type QueryService struct {
	engine  Runner
	timeout time.Duration
	logger  *slog.Logger
}

// NewQueryService creates a QueryService. A zero timeout disables the
// request-level deadline.
func NewQueryService(eng Runner, timeout time.Duration, logger *slog.Logger) *QueryService {
	return &QueryService{engine: eng, timeout: timeout, logger: logger}
}

// Execute runs a query with the given label→results references. A deadline
// hit during the run is reported as ExecutionTimeout; cleanup has already
// run inside the engine by the time the error propagates here.
func (s *QueryService) Execute(ctx context.Context, query string, refs map[string]domain.ResultSet) (*domain.QueryResult, error) {
	start := time.Now()

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.engine.Run(runCtx, query, domain.MapLookup(refs))
	durationMS := time.Since(start).Milliseconds()
	requestID := middleware.RequestIDFromContext(ctx)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.ErrExecutionTimeout(s.timeout)
		}
		s.logger.Warn("query failed",
			"request_id", requestID, "duration_ms", durationMS, "error", err)
		return nil, err
	}

	s.logger.Info("query succeeded",
		"request_id", requestID, "duration_ms", durationMS, "rows", result.RowCount)
	return result, nil
}

// Ping reports engine reachability for health checks.
func (s *QueryService) Ping(ctx context.Context) error {
	return s.engine.Ping(ctx)
}
