package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"delivery-scheduler/internal/domain"
)

type ShiftRepository struct {
	db *sql.DB
}

func NewShiftRepository(db *sql.DB) *ShiftRepository { return &ShiftRepository{db: db} }

const shiftColumns = `
SELECT s.id, s.date, s.time, s.slots_available, s.comment, s.notes,
       (SELECT COUNT(*) FROM deliveries d WHERE d.delivery_shift_id = s.id) AS slots_filled
FROM shifts s`

func scanShift(sc interface{ Scan(...any) error }) (domain.Shift, error) {
	var s domain.Shift
	var t string
	if err := sc.Scan(&s.ID, &s.Date, &t, &s.SlotsAvailable, &s.Comment, &s.Notes, &s.SlotsFilled); err != nil {
		return domain.Shift{}, err
	}
	s.Time = domain.ShiftTime(t)
	s.Date = dateOnly(s.Date)
	return s, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FindShift looks up the shift for an exact (date, time) pair.
func (r *ShiftRepository) FindShift(ctx context.Context, date time.Time, t domain.ShiftTime) (domain.Shift, bool, error) {
	row := r.db.QueryRowContext(ctx, shiftColumns+`
WHERE s.date = $1 AND s.time = $2`, date.Format(time.DateOnly), string(t))
	s, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shift{}, false, nil
	}
	if err != nil {
		return domain.Shift{}, false, fmt.Errorf("find shift: %w", err)
	}
	return s, true, nil
}

// ListByDate returns the day's shifts with their filled slot counts.
func (r *ShiftRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.Shift, error) {
	rows, err := r.db.QueryContext(ctx, shiftColumns+`
WHERE s.date = $1
ORDER BY s.time`, date.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var out []domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateShiftTemplate inserts an AM and a PM shift for every day in
// [start, end). Existing (date, time) pairs are left alone. Returns the number
// of shifts created.
func (r *ShiftRepository) CreateShiftTemplate(ctx context.Context, start, end time.Time, slots int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	created := 0
	for day := dateOnly(start); day.Before(dateOnly(end)); day = day.AddDate(0, 0, 1) {
		for _, t := range []domain.ShiftTime{domain.ShiftAM, domain.ShiftPM} {
			res, err := tx.ExecContext(ctx, `
INSERT INTO shifts (date, time, slots_available)
VALUES ($1, $2, $3)
ON CONFLICT (date, time) DO NOTHING`, day.Format(time.DateOnly), string(t), slots)
			if err != nil {
				return 0, fmt.Errorf("create shift %s %s: %w", day.Format(time.DateOnly), t, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return 0, err
			}
			created += int(n)
		}
	}
	return created, tx.Commit()
}
