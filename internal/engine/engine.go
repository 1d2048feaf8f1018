// Package engine orchestrates node-reference queries against DuckDB: it
// scans a query for {label} references, materializes each referenced
// node's cached result set as a session-scoped temp relation, rewrites the
// query to use the materialized relations, executes it, and always drops
// the relations before returning.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"sqlcanvas/internal/domain"
	"sqlcanvas/internal/sqlrewrite"
)

// Engine runs node-reference queries against a DuckDB connection pool.
// Each request pins its own connection, so concurrent requests never
// observe each other's ephemeral relations.
type Engine struct {
	db       *sql.DB
	logger   *slog.Logger
	newToken func() string
}

// NewEngine creates an Engine over the given DuckDB handle.
func NewEngine(db *sql.DB, logger *slog.Logger) *Engine {
	return &Engine{
		db:       db,
		logger:   logger,
		newToken: defaultToken,
	}
}

// SetTokenFunc overrides the request-scoped uniqueness token generator.
// Intended for tests that need deterministic relation names.
func (e *Engine) SetTokenFunc(f func() string) {
	e.newToken = f
}

// defaultToken returns an 8-hex-char token derived from a fresh UUID.
func defaultToken() string {
	return uuid.NewString()[:8]
}

// Run executes a query, resolving any {label} references through the given
// lookup. The flow:
//
//  1. Scan the query for references; with none, execute directly, without
//     pinning a session or creating relations.
//  2. Resolve each distinct label, failing fast on missing or empty results.
//  3. Pin a connection and materialize one temp relation per distinct label,
//     suffixed with a request-scoped token so concurrent requests on the
//     same label cannot collide.
//  4. Rewrite every reference occurrence to its relation name and execute
//     on the same connection.
//  5. Drop every relation created, on every exit path.
func (e *Engine) Run(ctx context.Context, query string, lookup domain.Lookup) (*domain.QueryResult, error) {
	refs := sqlrewrite.ScanReferences(query)
	if len(refs) == 0 {
		rows, err := e.db.QueryContext(ctx, query)
		if err != nil {
			return nil, domain.ErrExecution(err)
		}
		defer rows.Close() //nolint:errcheck
		result, err := collectRows(rows)
		if err != nil {
			return nil, domain.ErrExecution(err)
		}
		return result, nil
	}

	resolved, err := resolveReferences(refs, lookup)
	if err != nil {
		return nil, err
	}

	// Fresh session per request: temp relations are visible only on this
	// connection, and cleanup cannot touch another request's relations.
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	sess := newSession(conn, e.logger)
	// Cleanup runs on a context detached from the request's cancellation so
	// relations are dropped even after a timeout.
	defer sess.cleanup(context.WithoutCancel(ctx))

	token := e.newToken()
	relations := make(map[string]string, len(resolved.labels))
	used := make(map[string]struct{}, len(resolved.labels))
	for _, label := range resolved.labels {
		name := uniqueName(label, token, used)
		if err := sess.materialize(ctx, name, resolved.sets[label]); err != nil {
			return nil, domain.ErrMaterialization(label, err)
		}
		relations[label] = name
	}

	rewritten, err := sqlrewrite.Rewrite(query, refs, relations)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query rewritten", "relations", len(relations), "sql", rewritten)

	rows, err := conn.QueryContext(ctx, rewritten)
	if err != nil {
		return nil, domain.ErrExecution(err)
	}
	defer rows.Close() //nolint:errcheck

	result, err := collectRows(rows)
	if err != nil {
		return nil, domain.ErrExecution(err)
	}
	return result, nil
}

// Ping reports whether the underlying engine is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

// resolvedSet maps each distinct label to its cached result set, keeping
// first-occurrence order for deterministic materialization.
type resolvedSet struct {
	labels []string
	sets   map[string]domain.ResultSet
}

// resolveReferences maps each distinct label to a result set via the
// lookup. It aborts on the first missing or empty result, before any
// relation is created.
func resolveReferences(refs []sqlrewrite.Reference, lookup domain.Lookup) (*resolvedSet, error) {
	labels := sqlrewrite.DistinctLabels(refs)
	sets := make(map[string]domain.ResultSet, len(labels))
	for _, label := range labels {
		rs, ok := lookup.Resolve(label)
		if !ok {
			return nil, domain.ErrReferenceNotFound(label)
		}
		if len(rs) == 0 {
			return nil, domain.ErrReferenceEmpty(label)
		}
		sets[label] = rs
	}
	return &resolvedSet{labels: labels, sets: sets}, nil
}

// uniqueName derives a relation name for a label that is unique within the
// request. Distinct labels can sanitize to the same identifier (e.g.
// "a b" and "a.b"), so a taken name gets an ordinal suffix.
func uniqueName(label, token string, used map[string]struct{}) string {
	name := relationName(label, token)
	for i := 2; ; i++ {
		if _, taken := used[name]; !taken {
			break
		}
		name = relationName(label, token) + "_" + strconv.Itoa(i)
	}
	used[name] = struct{}{}
	return name
}
