package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-scheduler/internal/domain"
)

type DeliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) *DeliveryRepository { return &DeliveryRepository{db: db} }

const deliveryColumns = `
SELECT d.id, COALESCE(d.order_number,''), COALESCE(d.online_id,''), d.delivery_shift_id,
       d.recipient_first_name, d.recipient_last_name, COALESCE(d.recipient_phone_number,''),
       d.recipient_email, d.address_name, d.address_line_1, d.address_line_2,
       d.address_city, d.address_postal_code, d.delivery_type, d.notes, d.created_at,
       s.date, s.time, s.slots_available
FROM deliveries d
LEFT JOIN shifts s ON s.id = d.delivery_shift_id`

func scanDelivery(sc interface{ Scan(...any) error }) (domain.Delivery, error) {
	var (
		d         domain.Delivery
		shiftID   sql.NullInt64
		shiftDate sql.NullTime
		shiftTime sql.NullString
		slots     sql.NullInt64
		dtype     int
	)
	err := sc.Scan(&d.ID, &d.OrderNumber, &d.OnlineID, &shiftID,
		&d.RecipientFirstName, &d.RecipientLastName, &d.RecipientPhone,
		&d.RecipientEmail, &d.AddressName, &d.AddressLine1, &d.AddressLine2,
		&d.AddressCity, &d.AddressPostalCode, &dtype, &d.Notes, &d.CreatedAt,
		&shiftDate, &shiftTime, &slots)
	if err != nil {
		return domain.Delivery{}, err
	}
	d.DeliveryType = domain.DeliveryType(dtype)
	if shiftID.Valid {
		d.SetShift(&domain.Shift{
			ID:             shiftID.Int64,
			Date:           dateOnly(shiftDate.Time),
			Time:           domain.ShiftTime(shiftTime.String),
			SlotsAvailable: int(slots.Int64),
		})
	}
	return d, nil
}

func (r *DeliveryRepository) query(ctx context.Context, where string, args ...any) ([]domain.Delivery, error) {
	rows, err := r.db.QueryContext(ctx, deliveryColumns+"\n"+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, r.attachItems(ctx, out)
}

func (r *DeliveryRepository) attachItems(ctx context.Context, ds []domain.Delivery) error {
	if len(ds) == 0 {
		return nil
	}
	idx := make(map[int64]int, len(ds))
	ids := make([]int64, 0, len(ds))
	for i, d := range ds {
		idx[d.ID] = i
		ids = append(ids, d.ID)
	}
	list, args := inList(1, ids)
	rows, err := r.db.QueryContext(ctx, `
SELECT id, delivery_id, name, quantity, picked_up, note, COALESCE(pos_id,'')
FROM items WHERE delivery_id IN (`+list+`)
ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.DeliveryID, &it.Name, &it.Quantity, &it.PickedUp, &it.Note, &it.POSID); err != nil {
			return err
		}
		if i, ok := idx[it.DeliveryID]; ok {
			ds[i].Items = append(ds[i].Items, it)
		}
	}
	return rows.Err()
}

// FindByOrderNumbers matches case-insensitively; the result is keyed by the
// normalized (upper-cased) order number.
func (r *DeliveryRepository) FindByOrderNumbers(ctx context.Context, numbers []string) (map[string]domain.Delivery, error) {
	numbers = uniqueNonEmpty(numbers, domain.NormalizeOrderNumber)
	out := make(map[string]domain.Delivery, len(numbers))
	if len(numbers) == 0 {
		return out, nil
	}
	list, args := inList(1, numbers)
	ds, err := r.query(ctx, "WHERE UPPER(d.order_number) IN ("+list+")", args...)
	if err != nil {
		return nil, fmt.Errorf("find deliveries by order number: %w", err)
	}
	for _, d := range ds {
		out[d.NormalizedOrderNumber()] = d
	}
	return out, nil
}

// FindByOnlineIDs matches online ids exactly.
func (r *DeliveryRepository) FindByOnlineIDs(ctx context.Context, ids []string) (map[string]domain.Delivery, error) {
	ids = uniqueNonEmpty(ids, nil)
	out := make(map[string]domain.Delivery, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, args := inList(1, ids)
	ds, err := r.query(ctx, "WHERE d.online_id IN ("+list+")", args...)
	if err != nil {
		return nil, fmt.Errorf("find deliveries by online id: %w", err)
	}
	for _, d := range ds {
		out[d.OnlineID] = d
	}
	return out, nil
}

func (r *DeliveryRepository) FindByOrderNumber(ctx context.Context, number string) (domain.Delivery, bool, error) {
	m, err := r.FindByOrderNumbers(ctx, []string{number})
	if err != nil {
		return domain.Delivery{}, false, err
	}
	d, ok := m[domain.NormalizeOrderNumber(number)]
	return d, ok, nil
}

// ListWithOrderNumbers returns every delivery that came from (or is linked to)
// a POS order, newest first.
func (r *DeliveryRepository) ListWithOrderNumbers(ctx context.Context) ([]domain.Delivery, error) {
	ds, err := r.query(ctx, "WHERE d.order_number IS NOT NULL AND d.order_number <> ''\nORDER BY d.created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return ds, nil
}

// Create inserts d and its items in one transaction and fills in the ids.
// A unique-constraint rejection is reported as ErrDuplicate.
func (r *DeliveryRepository) Create(ctx context.Context, d *domain.Delivery) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
INSERT INTO deliveries
    (order_number, online_id, delivery_shift_id, recipient_first_name, recipient_last_name,
     recipient_phone_number, recipient_email, address_name, address_line_1, address_line_2,
     address_city, address_postal_code, delivery_type, notes, created_at)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, COALESCE($15, now()))
RETURNING id`,
		nullIfEmpty(d.OrderNumber), nullIfEmpty(d.OnlineID), d.ShiftID,
		d.RecipientFirstName, d.RecipientLastName, nullIfEmpty(d.RecipientPhone),
		d.RecipientEmail, d.AddressName, d.AddressLine1, d.AddressLine2,
		d.AddressCity, d.AddressPostalCode, int(d.DeliveryType), d.Notes, nullTime(d),
	).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert delivery %s: %w", d.OrderNumber, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert delivery: %w", err)
	}

	if err = insertItems(ctx, tx, d); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update rewrites the recipient and address fields of a stored delivery and
// inserts any items that are not stored yet.
func (r *DeliveryRepository) Update(ctx context.Context, d *domain.Delivery) (err error) {
	if !d.Persisted() {
		return errors.New("update: delivery is not stored")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
UPDATE deliveries SET
    delivery_shift_id = $2, recipient_first_name = $3, recipient_last_name = $4,
    recipient_phone_number = $5, recipient_email = $6, address_name = $7,
    address_line_1 = $8, address_line_2 = $9, address_city = $10,
    address_postal_code = $11, delivery_type = $12, notes = $13
WHERE id = $1`,
		d.ID, d.ShiftID, d.RecipientFirstName, d.RecipientLastName,
		nullIfEmpty(d.RecipientPhone), d.RecipientEmail, d.AddressName,
		d.AddressLine1, d.AddressLine2, d.AddressCity,
		d.AddressPostalCode, int(d.DeliveryType), d.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update delivery %d: %w", d.ID, ErrDuplicate)
		}
		return fmt.Errorf("failed to update delivery: %w", err)
	}

	if err = insertItems(ctx, tx, d); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, d *domain.Delivery) error {
	for i := range d.Items {
		it := &d.Items[i]
		if it.ID != 0 {
			continue
		}
		it.DeliveryID = d.ID
		if err := tx.QueryRowContext(ctx, `
INSERT INTO items (delivery_id, name, quantity, picked_up, note, pos_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`, d.ID, it.Name, it.Quantity, it.PickedUp, it.Note, nullIfEmpty(it.POSID)).Scan(&it.ID); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", it.Name, err)
		}
	}
	return nil
}

func nullTime(d *domain.Delivery) any {
	if d.CreatedAt.IsZero() {
		return nil
	}
	return d.CreatedAt
}
