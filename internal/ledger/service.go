package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"barslot/internal/bar"
	"barslot/internal/logger"
	"barslot/internal/metrics"
	"barslot/internal/user"
)

const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"

	DefaultSlotCapacity  = 20
	DefaultProvisionDays = 7
	MaxProvisionDays     = 366
)

type BarLookup interface {
	GetByID(ctx context.Context, id int) (*bar.Bar, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// Notifier delivers the booking confirmation. It reports success and never
// returns an error; callers treat it as best effort.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, snap Snapshot, recipient string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, kind string, snap Snapshot) error
}

// AvailabilityCache stores encoded availability listings per bar.
type AvailabilityCache interface {
	Get(ctx context.Context, barID int, key string) ([]byte, bool, error)
	Set(ctx context.Context, barID int, key string, value []byte) error
	Invalidate(ctx context.Context, barID int) error
}

type Config struct {
	DefaultCapacity int
	ProvisionDays   int
	TimeSlots       []string
	Now             func() time.Time
}

type Service interface {
	UpsertSlot(ctx context.Context, in SlotInput) (*Slot, error)
	ProvisionRange(ctx context.Context, in ProvisionInput) (int, error)
	GetSlot(ctx context.Context, id int) (*Slot, error)
	DeleteSlot(ctx context.Context, id int) error
	ListAvailability(ctx context.Context, barID int, startDate, endDate string) ([]Slot, error)

	Book(ctx context.Context, userID int, in BookingInput) (*Reservation, error)
	Cancel(ctx context.Context, reservationID, userID int) (*Reservation, error)
	ListUserReservations(ctx context.Context, userID int) ([]Reservation, error)
	ListBarReservations(ctx context.Context, barID int) ([]Reservation, error)
}

type service struct {
	repo     Repository
	bars     BarLookup
	users    UserLookup
	notifier Notifier
	events   EventPublisher
	cache    AvailabilityCache
	cfg      Config
}

// NewService wires the ledger. notifier, events and cache may be nil.
func NewService(
	repo Repository,
	bars BarLookup,
	users UserLookup,
	notifier Notifier,
	events EventPublisher,
	cache AvailabilityCache,
	cfg Config,
) Service {
	if cfg.DefaultCapacity <= 0 {
		cfg.DefaultCapacity = DefaultSlotCapacity
	}
	if cfg.ProvisionDays <= 0 {
		cfg.ProvisionDays = DefaultProvisionDays
	}
	if len(cfg.TimeSlots) == 0 {
		cfg.TimeSlots = DefaultTimeSlots
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &service{
		repo:     repo,
		bars:     bars,
		users:    users,
		notifier: notifier,
		events:   events,
		cache:    cache,
		cfg:      cfg,
	}
}

func (s *service) UpsertSlot(ctx context.Context, in SlotInput) (*Slot, error) {
	if in.BarID <= 0 {
		return nil, fmt.Errorf("%w: bar_id is required", ErrValidation)
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	label, err := NormalizeTimeSlot(in.TimeSlot)
	if err != nil {
		return nil, err
	}
	if in.TotalCapacity < 0 {
		return nil, fmt.Errorf("%w: total_capacity cannot be negative", ErrValidation)
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	slot, err := s.repo.UpsertSlot(ctx, in.BarID, date, label, in.TotalCapacity, available)
	if err != nil {
		return nil, err
	}

	logger.Info("slot upserted", "bar_id", slot.BarID, "date", slot.Date.String(), "time_slot", slot.TimeSlot,
		"total_capacity", slot.TotalCapacity)
	s.invalidate(ctx, slot.BarID)
	return slot, nil
}

func (s *service) ProvisionRange(ctx context.Context, in ProvisionInput) (int, error) {
	if in.BarID <= 0 {
		return 0, fmt.Errorf("%w: bar_id is required", ErrValidation)
	}

	days := s.cfg.ProvisionDays
	if in.Days != nil {
		days = *in.Days
	}
	if days < 0 || days > MaxProvisionDays {
		return 0, fmt.Errorf("%w: days must be between 0 and %d", ErrValidation, MaxProvisionDays)
	}

	capacity := s.cfg.DefaultCapacity
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	if capacity < 0 {
		return 0, fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
	}

	labels, err := normalizeLabels(in.TimeSlots, s.cfg.TimeSlots)
	if err != nil {
		return 0, err
	}

	if err := s.requireBar(ctx, in.BarID); err != nil {
		return 0, err
	}

	today := DateOf(s.cfg.Now())
	dates := make([]Date, days)
	for i := range dates {
		dates[i] = today.AddDays(i)
	}

	created, err := s.repo.ProvisionSlots(ctx, in.BarID, dates, labels, capacity)
	if err != nil {
		return 0, err
	}

	metrics.RecordSlotsProvisioned(created)
	if created > 0 {
		logger.Info("slots provisioned", "bar_id", in.BarID, "days", days, "created", created)
		s.invalidate(ctx, in.BarID)
	}
	return created, nil
}

func normalizeLabels(labels, fallback []string) ([]string, error) {
	if len(labels) == 0 {
		labels = fallback
	}
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		n, err := NormalizeTimeSlot(l)
		if err != nil {
			return nil, err
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *service) GetSlot(ctx context.Context, id int) (*Slot, error) {
	return s.repo.GetSlot(ctx, id)
}

func (s *service) DeleteSlot(ctx context.Context, id int) error {
	slot, err := s.repo.DeleteSlot(ctx, id)
	if err != nil {
		return err
	}

	logger.Info("slot deleted", "slot_id", id, "bar_id", slot.BarID)
	s.invalidate(ctx, slot.BarID)
	return nil
}

func (s *service) ListAvailability(ctx context.Context, barID int, startDate, endDate string) ([]Slot, error) {
	var start, end *Date
	if startDate != "" {
		d, err := ParseDate(startDate)
		if err != nil {
			return nil, err
		}
		start = &d
	}
	if endDate != "" {
		d, err := ParseDate(endDate)
		if err != nil {
			return nil, err
		}
		end = &d
	}

	key := startDate + "|" + endDate
	if cached, ok := s.cachedSlots(ctx, barID, key); ok {
		return cached, nil
	}

	slots, err := s.repo.ListSlots(ctx, barID, start, end)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(slots); err == nil {
			if err := s.cache.Set(ctx, barID, key, raw); err != nil {
				logger.Warn("availability cache write failed", "bar_id", barID, "error", err)
			}
		}
	}
	return slots, nil
}

func (s *service) cachedSlots(ctx context.Context, barID int, key string) ([]Slot, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, barID, key)
	if err != nil {
		logger.Warn("availability cache read failed", "bar_id", barID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	slots := []Slot{}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (s *service) Book(ctx context.Context, userID int, in BookingInput) (*Reservation, error) {
	nr, err := s.validateBooking(userID, in)
	if err != nil {
		return nil, err
	}

	b, err := s.bars.GetByID(ctx, nr.BarID)
	if err != nil {
		if errors.Is(err, bar.ErrBarNotFound) {
			return nil, fmt.Errorf("bar %d: %w", nr.BarID, ErrNotFound)
		}
		return nil, err
	}

	reservation, slot, err := s.repo.Book(ctx, nr, s.cfg.DefaultCapacity)
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			metrics.RecordCapacityRejection()
		}
		metrics.RecordReservation("failed")
		return nil, err
	}

	metrics.RecordReservation(string(reservation.Status))
	logger.Info("reservation confirmed", "reservation_id", reservation.ID, "user_id", userID,
		"bar_id", nr.BarID, "slot_id", slot.ID, "reserved_count", slot.ReservedCount)

	reservation.BarName = &b.Name
	reservation.BarAddress = &b.Address
	reservation.BarImage = b.ImageURL

	s.invalidate(ctx, nr.BarID)
	snap := newSnapshot(reservation, b.Name, b.Address, s.cfg.Now())
	s.publish(ctx, EventReservationConfirmed, snap)
	s.notifyConfirmed(ctx, userID, snap)

	return reservation, nil
}

func (s *service) validateBooking(userID int, in BookingInput) (newReservation, error) {
	nr := newReservation{
		UserID:    userID,
		BarID:     in.BarID,
		FullName:  strings.TrimSpace(in.FullName),
		Phone:     strings.TrimSpace(in.Phone),
		PartySize: in.PartySize,
		Notes:     in.Notes,
	}

	switch {
	case userID <= 0:
		return nr, fmt.Errorf("%w: user is required", ErrValidation)
	case nr.BarID <= 0:
		return nr, fmt.Errorf("%w: bar_id is required", ErrValidation)
	case nr.FullName == "":
		return nr, fmt.Errorf("%w: full_name is required", ErrValidation)
	case nr.Phone == "":
		return nr, fmt.Errorf("%w: phone is required", ErrValidation)
	case nr.PartySize <= 0:
		return nr, fmt.Errorf("%w: num_people must be positive", ErrValidation)
	}

	date, err := ParseDate(in.ReservationDate)
	if err != nil {
		return nr, err
	}
	nr.Date = date

	nr.TimeSlot, err = NormalizeTimeSlot(in.ReservationTime)
	if err != nil {
		return nr, err
	}

	if nr.Notes != nil && strings.TrimSpace(*nr.Notes) == "" {
		nr.Notes = nil
	}
	return nr, nil
}

// notifyConfirmed runs after commit; its outcome never reaches the caller.
func (s *service) notifyConfirmed(ctx context.Context, userID int, snap Snapshot) {
	if s.notifier == nil || s.users == nil {
		return
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("skipping booking confirmation", "reservation_id", snap.ReservationID, "error", err)
		return
	}

	if !s.notifier.NotifyBookingConfirmed(ctx, snap, u.Email) {
		logger.Warn("booking confirmation not delivered", "reservation_id", snap.ReservationID)
	}
}

func (s *service) Cancel(ctx context.Context, reservationID, userID int) (*Reservation, error) {
	reservation, released, err := s.repo.Cancel(ctx, reservationID, userID)
	if err != nil {
		return nil, err
	}

	if !released {
		logger.Info("reservation already cancelled", "reservation_id", reservationID)
		return reservation, nil
	}

	metrics.RecordCancellation()
	logger.Info("reservation cancelled", "reservation_id", reservationID, "user_id", userID)

	s.invalidate(ctx, reservation.BarID)

	if s.events != nil {
		var barName, barAddress string
		if b, err := s.bars.GetByID(ctx, reservation.BarID); err == nil {
			barName, barAddress = b.Name, b.Address
		}
		s.publish(ctx, EventReservationCancelled, newSnapshot(reservation, barName, barAddress, s.cfg.Now()))
	}
	return reservation, nil
}

func (s *service) ListUserReservations(ctx context.Context, userID int) ([]Reservation, error) {
	return s.repo.ListUserReservations(ctx, userID)
}

func (s *service) ListBarReservations(ctx context.Context, barID int) ([]Reservation, error) {
	return s.repo.ListBarReservations(ctx, barID)
}

func (s *service) requireBar(ctx context.Context, barID int) error {
	if _, err := s.bars.GetByID(ctx, barID); err != nil {
		if errors.Is(err, bar.ErrBarNotFound) {
			return fmt.Errorf("bar %d: %w", barID, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, barID int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, barID); err != nil {
		logger.Warn("availability cache invalidation failed", "bar_id", barID, "error", err)
	}
}

func (s *service) publish(ctx context.Context, kind string, snap Snapshot) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, kind, snap); err != nil {
		logger.Warn("reservation event not published", "kind", kind, "reservation_id", snap.ReservationID, "error", err)
	}
}
