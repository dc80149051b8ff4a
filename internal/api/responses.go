package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Code  string `json:"code,omitempty" example:"capacity_exceeded"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type CountResponse struct {
	Message string `json:"message" example:"Created 28 slots"`
	Count   int    `json:"count" example:"28"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type ValidationErrorResponse struct {
	Error   string            `json:"error" example:"validation failed"`
	Code    string            `json:"code" example:"validation_failed"`
	Details []ValidationError `json:"details"`
}
