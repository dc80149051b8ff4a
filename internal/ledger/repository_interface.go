package ledger

import "context"

type Repository interface {
	UpsertSlot(ctx context.Context, barID int, date Date, timeSlot string, totalCapacity int, isAvailable bool) (*Slot, error)
	ProvisionSlots(ctx context.Context, barID int, dates []Date, timeSlots []string, capacity int) (int, error)
	GetSlot(ctx context.Context, id int) (*Slot, error)
	DeleteSlot(ctx context.Context, id int) (*Slot, error)
	ListSlots(ctx context.Context, barID int, start, end *Date) ([]Slot, error)

	Book(ctx context.Context, in newReservation, defaultCapacity int) (*Reservation, *Slot, error)
	Cancel(ctx context.Context, reservationID, userID int) (*Reservation, bool, error)
	ListUserReservations(ctx context.Context, userID int) ([]Reservation, error)
	ListBarReservations(ctx context.Context, barID int) ([]Reservation, error)
}
