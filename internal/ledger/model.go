package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// HoldsCapacity reports whether a reservation in this status still claims a unit.
func (s Status) HoldsCapacity() bool {
	return s != StatusCancelled
}

// Date is a calendar date without time of day or zone.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrValidation, s)
	}
	return DateOf(t), nil
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("ledger: cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Slot is one bookable (bar, date, time slot) unit and its capacity counter.
type Slot struct {
	ID            int       `db:"id" json:"id"`
	BarID         int       `db:"bar_id" json:"bar_id"`
	Date          Date      `db:"date" json:"date" swaggertype:"string" example:"2024-11-15"`
	TimeSlot      string    `db:"time_slot" json:"time_slot" example:"22:00"`
	TotalCapacity int       `db:"total_capacity" json:"total_capacity"`
	ReservedCount int       `db:"reserved_count" json:"reserved_count"`
	IsAvailable   bool      `db:"is_available" json:"is_available"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

func (s Slot) AvailableCapacity() int {
	if s.ReservedCount >= s.TotalCapacity {
		return 0
	}
	return s.TotalCapacity - s.ReservedCount
}

func (s Slot) MarshalJSON() ([]byte, error) {
	type plain Slot
	return json.Marshal(struct {
		plain
		AvailableCapacity int `json:"available_capacity"`
	}{plain(s), s.AvailableCapacity()})
}

type Reservation struct {
	ID              int       `db:"id" json:"id"`
	UserID          int       `db:"user_id" json:"user_id"`
	BarID           int       `db:"bar_id" json:"bar_id"`
	AvailabilityID  *int      `db:"availability_id" json:"availability_id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Phone           string    `db:"phone" json:"phone"`
	PartySize       int       `db:"num_people" json:"num_people"`
	ReservationDate Date      `db:"reservation_date" json:"reservation_date" swaggertype:"string" example:"2024-11-15"`
	ReservationTime string    `db:"reservation_time" json:"reservation_time" example:"22:00"`
	Status          Status    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`

	BarName    *string `db:"bar_name" json:"bar_name,omitempty"`
	BarAddress *string `db:"bar_address" json:"bar_address,omitempty"`
	BarImage   *string `db:"bar_image" json:"bar_image,omitempty"`
}

// Snapshot is the committed state of a reservation handed to side channels.
type Snapshot struct {
	ReservationID int       `json:"reservation_id"`
	UserID        int       `json:"user_id"`
	BarID         int       `json:"bar_id"`
	BarName       string    `json:"bar_name"`
	BarAddress    string    `json:"bar_address"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	PartySize     int       `json:"num_people"`
	Date          Date      `json:"reservation_date"`
	TimeSlot      string    `json:"reservation_time"`
	Status        Status    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func newSnapshot(r *Reservation, barName, barAddress string, at time.Time) Snapshot {
	snap := Snapshot{
		ReservationID: r.ID,
		UserID:        r.UserID,
		BarID:         r.BarID,
		BarName:       barName,
		BarAddress:    barAddress,
		FullName:      r.FullName,
		Phone:         r.Phone,
		PartySize:     r.PartySize,
		Date:          r.ReservationDate,
		TimeSlot:      r.ReservationTime,
		Status:        r.Status,
		OccurredAt:    at,
	}
	if r.Notes != nil {
		snap.Notes = *r.Notes
	}
	return snap
}

type SlotInput struct {
	BarID         int
	Date          string
	TimeSlot      string
	TotalCapacity int
	IsAvailable   *bool
}

type ProvisionInput struct {
	BarID     int
	Days      *int
	TimeSlots []string
	Capacity  *int
}

type BookingInput struct {
	BarID           int
	FullName        string
	Phone           string
	PartySize       int
	ReservationDate string
	ReservationTime string
	Notes           *string
}

// newReservation is the validated form of BookingInput passed to the repository.
type newReservation struct {
	UserID    int
	BarID     int
	FullName  string
	Phone     string
	PartySize int
	Date      Date
	TimeSlot  string
	Notes     *string
}
