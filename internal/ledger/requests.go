package ledger

type UpsertSlotRequest struct {
	BarID         int    `json:"bar_id" binding:"required,gt=0" example:"1"`
	Date          string `json:"date" binding:"required,isodate" example:"2024-11-15"`
	TimeSlot      string `json:"time_slot" binding:"required,max=20" example:"22:00"`
	TotalCapacity *int   `json:"total_capacity" binding:"required,gte=0" example:"20"`
	IsAvailable   *bool  `json:"is_available" example:"true"`
}

type ProvisionRequest struct {
	BarID     int      `json:"bar_id" binding:"required,gt=0" example:"1"`
	Days      *int     `json:"days" binding:"omitempty,gte=0,lte=366" example:"7"`
	TimeSlots []string `json:"time_slots" binding:"omitempty,dive,max=20" example:"22:00,23:00,00:00"`
	Capacity  *int     `json:"capacity" binding:"omitempty,gte=0" example:"20"`
}

type CreateReservationRequest struct {
	BarID           int     `json:"bar_id" binding:"required,gt=0" example:"1"`
	FullName        string  `json:"full_name" binding:"required,max=120" example:"Juan Pérez"`
	Phone           string  `json:"phone" binding:"required,max=20" example:"+57 300 1234567"`
	NumPeople       int     `json:"num_people" binding:"required,gt=0" example:"4"`
	ReservationDate string  `json:"reservation_date" binding:"required,isodate" example:"2024-11-15"`
	ReservationTime string  `json:"reservation_time" binding:"required,max=20" example:"22:00"`
	Notes           *string `json:"notes" example:"Table near the dance floor"`
}

type CancelResponse struct {
	Message     string      `json:"message" example:"Reservation cancelled"`
	Reservation Reservation `json:"reservation"`
}
