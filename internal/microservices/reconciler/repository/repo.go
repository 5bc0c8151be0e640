package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schema string

// ErrDuplicate is returned when the store rejects a row on a unique constraint
// (order number, online id or recipient phone).
var ErrDuplicate = errors.New("duplicate delivery")

type Repository struct {
	Deliveries *DeliveryRepository
	Shifts     *ShiftRepository
	db         *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{
		Deliveries: NewDeliveryRepository(db),
		Shifts:     NewShiftRepository(db),
		db:         db,
	}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// inList renders "$n,$n+1,..." for len(vals) values starting at $start.
func inList[T any](start int, vals []T) (string, []any) {
	ph := make([]string, len(vals))
	args := make([]any, len(vals))
	for i, v := range vals {
		ph[i] = fmt.Sprintf("$%d", start+i)
		args[i] = v
	}
	return strings.Join(ph, ","), args
}

func uniqueNonEmpty(vals []string, norm func(string) string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if norm != nil {
			v = norm(v)
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
