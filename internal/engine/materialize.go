package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"sqlcanvas/internal/domain"
)

// relationPrefix marks every ephemeral relation this engine creates.
// The prefix also keeps sanitized labels clear of SQL keywords.
const relationPrefix = "__node_"

// execer is the subset of *sql.Conn a request session needs. Narrowed so
// session behavior can be exercised against a stub.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// session tracks the ephemeral relations created on one pinned connection.
// Relations are recorded incrementally as they are created, so cleanup
// after a mid-request failure drops exactly what exists.
type session struct {
	ex      execer
	logger  *slog.Logger
	created []string
}

func newSession(ex execer, logger *slog.Logger) *session {
	return &session{ex: ex, logger: logger}
}

// materialize creates a temp relation holding the result set's rows.
// The relation is recorded only after the engine accepts the DDL.
func (s *session) materialize(ctx context.Context, name string, rs domain.ResultSet) error {
	createSQL, err := buildCreateSQL(name, rs)
	if err != nil {
		return err
	}
	if _, err := s.ex.ExecContext(ctx, createSQL); err != nil {
		return err
	}
	s.created = append(s.created, name)
	return nil
}

// cleanup drops every relation created in this session, best-effort. Drop
// failures are logged and never escalated; a failed drop must not replace
// whatever error is already being returned to the caller. Safe to call
// more than once; the second call is a no-op.
func (s *session) cleanup(ctx context.Context) {
	for _, name := range s.created {
		if _, err := s.ex.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
			s.logger.Warn("drop ephemeral relation failed", "relation", name, "error", err)
		}
	}
	s.created = nil
}

// buildCreateSQL renders a result set as a literal-row temp table:
//
//	CREATE TEMP TABLE "name" AS SELECT * FROM (VALUES …) AS t("col", …)
//
// The column schema is the first row's key list; every row is serialized
// against it. Missing keys become NULL, extra keys are ignored.
func buildCreateSQL(name string, rs domain.ResultSet) (string, error) {
	cols := rs.Columns()
	if len(cols) == 0 {
		return "", fmt.Errorf("result set has no columns")
	}

	var b strings.Builder
	b.WriteString("CREATE TEMP TABLE ")
	b.WriteString(quoteIdent(name))
	b.WriteString(" AS SELECT * FROM (VALUES ")
	for i, row := range rs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, col := range cols {
			if j > 0 {
				b.WriteString(", ")
			}
			v, _ := row.Value(col)
			b.WriteString(literal(v))
		}
		b.WriteByte(')')
	}
	b.WriteString(") AS t(")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIdent(col))
	}
	b.WriteByte(')')
	return b.String(), nil
}

// literal renders a scalar as a SQL literal: numbers unquoted, nil as
// NULL, everything else as a single-quoted string with embedded quotes
// doubled.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", x), "'", "''") + "'"
	}
}

// relationName derives the engine identifier for a label: sanitized label
// with the fixed prefix and the request-scoped token suffix.
func relationName(label, token string) string {
	return relationPrefix + sanitizeLabel(label) + "_" + token
}

// sanitizeLabel replaces every character outside [A-Za-z0-9_] with "_".
func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, label)
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
