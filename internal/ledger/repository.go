package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"barslot/internal/db"

	"github.com/jmoiron/sqlx"
)

const slotColumns = `id, bar_id, date, time_slot, total_capacity, reserved_count, is_available, created_at, updated_at`

const reservationColumns = `id, user_id, bar_id, availability_id, full_name, phone, num_people,
	reservation_date, reservation_time, status, notes, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// UpsertSlot creates the slot or overwrites its capacity. An update that
// would shrink capacity below the units already reserved matches no row and
// is reported as ErrConflict.
func (r *repository) UpsertSlot(ctx context.Context, barID int, date Date, timeSlot string, totalCapacity int, isAvailable bool) (*Slot, error) {
	query := `
		INSERT INTO availabilities (bar_id, date, time_slot, total_capacity, reserved_count, is_available)
		VALUES ($1, $2, $3, $4::int, 0, $5::boolean AND $4::int > 0)
		ON CONFLICT (bar_id, date, time_slot) DO UPDATE
		SET total_capacity = EXCLUDED.total_capacity,
			is_available = $5::boolean AND availabilities.reserved_count < EXCLUDED.total_capacity,
			updated_at = NOW()
		WHERE availabilities.reserved_count <= EXCLUDED.total_capacity
		RETURNING ` + slotColumns

	var slot Slot
	err := r.db.GetContext(ctx, &slot, query, barID, date, timeSlot, totalCapacity, isAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: total_capacity %d is below the current reserved count", ErrConflict, totalCapacity)
		}
		if db.IsPQCode(err, db.ForeignKeyViolation) {
			return nil, fmt.Errorf("bar %d: %w", barID, ErrNotFound)
		}
		return nil, err
	}

	return &slot, nil
}

// ProvisionSlots inserts every missing (date, time slot) pair and leaves
// existing rows untouched. It returns the number of rows created.
func (r *repository) ProvisionSlots(ctx context.Context, barID int, dates []Date, timeSlots []string, capacity int) (int, error) {
	query := `
		INSERT INTO availabilities (bar_id, date, time_slot, total_capacity, reserved_count, is_available)
		VALUES ($1, $2, $3, $4::int, 0, $4::int > 0)
		ON CONFLICT (bar_id, date, time_slot) DO NOTHING`

	created := 0
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, date := range dates {
			for _, label := range timeSlots {
				res, err := tx.ExecContext(ctx, query, barID, date, label, capacity)
				if err != nil {
					return err
				}
				n, err := res.RowsAffected()
				if err != nil {
					return err
				}
				created += int(n)
			}
		}
		return nil
	})
	if err != nil {
		if db.IsPQCode(err, db.ForeignKeyViolation) {
			return 0, fmt.Errorf("bar %d: %w", barID, ErrNotFound)
		}
		return 0, err
	}

	return created, nil
}

func (r *repository) GetSlot(ctx context.Context, id int) (*Slot, error) {
	var slot Slot
	err := r.db.GetContext(ctx, &slot, `SELECT `+slotColumns+` FROM availabilities WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &slot, nil
}

// DeleteSlot removes an unreserved slot and returns its last state.
func (r *repository) DeleteSlot(ctx context.Context, id int) (*Slot, error) {
	var slot Slot
	err := r.db.GetContext(ctx, &slot,
		`DELETE FROM availabilities WHERE id = $1 AND reserved_count = 0 RETURNING `+slotColumns, id)
	if err == nil {
		return &slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM availabilities WHERE id = $1)`, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: slot %d has active reservations", ErrConflict, id)
	}
	return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
}

func (r *repository) ListSlots(ctx context.Context, barID int, start, end *Date) ([]Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM availabilities WHERE bar_id = $1`
	args := []interface{}{barID}

	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date, time_slot"

	slots := []Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, err
	}
	return slots, nil
}

// Book claims one unit of the slot and records the reservation in a single
// transaction. The counter update is conditional on spare capacity, so
// concurrent bookings serialise on the slot row and can never oversell.
func (r *repository) Book(ctx context.Context, in newReservation, defaultCapacity int) (*Reservation, *Slot, error) {
	var (
		slot        Slot
		reservation Reservation
	)

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO availabilities (bar_id, date, time_slot, total_capacity, reserved_count, is_available)
			VALUES ($1, $2, $3, $4::int, 0, $4::int > 0)
			ON CONFLICT (bar_id, date, time_slot) DO NOTHING`,
			in.BarID, in.Date, in.TimeSlot, defaultCapacity,
		)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &slot, `
			UPDATE availabilities
			SET reserved_count = reserved_count + 1,
				is_available = reserved_count + 1 < total_capacity,
				updated_at = NOW()
			WHERE bar_id = $1 AND date = $2 AND time_slot = $3 AND reserved_count < total_capacity
			RETURNING `+slotColumns,
			in.BarID, in.Date, in.TimeSlot,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCapacityExceeded
		}
		if err != nil {
			return err
		}

		return tx.GetContext(ctx, &reservation, `
			INSERT INTO reservations (user_id, bar_id, availability_id, full_name, phone, num_people,
				reservation_date, reservation_time, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+reservationColumns,
			in.UserID, in.BarID, slot.ID, in.FullName, in.Phone, in.PartySize,
			in.Date, in.TimeSlot, StatusConfirmed, in.Notes,
		)
	})
	if err != nil {
		if db.IsPQCode(err, db.ForeignKeyViolation) {
			return nil, nil, fmt.Errorf("bar %d or user %d: %w", in.BarID, in.UserID, ErrNotFound)
		}
		return nil, nil, err
	}

	return &reservation, &slot, nil
}

// Cancel locks the reservation, releases its unit and marks it cancelled.
// Cancelling an already cancelled reservation is a no-op and reports
// released=false.
func (r *repository) Cancel(ctx context.Context, reservationID, userID int) (*Reservation, bool, error) {
	var (
		reservation Reservation
		released    bool
	)

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &reservation,
			`SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, reservationID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		if reservation.UserID != userID {
			return fmt.Errorf("%w: reservation %d belongs to another user", ErrForbidden, reservationID)
		}
		if !reservation.Status.HoldsCapacity() {
			return nil
		}

		if reservation.AvailabilityID != nil {
			_, err = tx.ExecContext(ctx, `
				UPDATE availabilities
				SET reserved_count = GREATEST(reserved_count - 1, 0),
					is_available = GREATEST(reserved_count - 1, 0) < total_capacity,
					updated_at = NOW()
				WHERE id = $1`,
				*reservation.AvailabilityID,
			)
			if err != nil {
				return err
			}
		}

		err = tx.GetContext(ctx, &reservation, `
			UPDATE reservations SET status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+reservationColumns,
			reservationID, StatusCancelled,
		)
		if err != nil {
			return err
		}
		released = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &reservation, released, nil
}

func (r *repository) ListUserReservations(ctx context.Context, userID int) ([]Reservation, error) {
	return r.listReservations(ctx, "r.user_id = $1", userID)
}

func (r *repository) ListBarReservations(ctx context.Context, barID int) ([]Reservation, error) {
	return r.listReservations(ctx, "r.bar_id = $1", barID)
}

func (r *repository) listReservations(ctx context.Context, filter string, arg int) ([]Reservation, error) {
	query := `
		SELECT r.id, r.user_id, r.bar_id, r.availability_id, r.full_name, r.phone, r.num_people,
			r.reservation_date, r.reservation_time, r.status, r.notes, r.created_at, r.updated_at,
			b.name AS bar_name, b.address AS bar_address, b.image_url AS bar_image
		FROM reservations r
		LEFT JOIN bars b ON b.id = r.bar_id
		WHERE ` + filter + `
		ORDER BY r.reservation_date DESC, r.reservation_time DESC, r.id DESC`

	reservations := []Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, arg); err != nil {
		return nil, err
	}
	return reservations, nil
}
