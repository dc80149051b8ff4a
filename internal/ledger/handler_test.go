package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barslot/internal/api"
	"barslot/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) UpsertSlot(ctx context.Context, in SlotInput) (*Slot, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Slot), args.Error(1)
}

func (m *MockService) ProvisionRange(ctx context.Context, in ProvisionInput) (int, error) {
	args := m.Called(ctx, in)
	return args.Int(0), args.Error(1)
}

func (m *MockService) GetSlot(ctx context.Context, id int) (*Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Slot), args.Error(1)
}

func (m *MockService) DeleteSlot(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) ListAvailability(ctx context.Context, barID int, startDate, endDate string) ([]Slot, error) {
	args := m.Called(ctx, barID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func (m *MockService) Book(ctx context.Context, userID int, in BookingInput) (*Reservation, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockService) Cancel(ctx context.Context, reservationID, userID int) (*Reservation, error) {
	args := m.Called(ctx, reservationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockService) ListUserReservations(ctx context.Context, userID int) ([]Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockService) ListBarReservations(ctx context.Context, barID int) ([]Reservation, error) {
	args := m.Called(ctx, barID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Reservation), args.Error(1)
}

// setupLedgerRouter authenticates every request as user 7 unless anonymous is set.
func setupLedgerRouter(svc Service, anonymous bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	api.RegisterBindingValidators()
	h := NewHandler(svc)

	r := gin.New()
	if !anonymous {
		r.Use(func(c *gin.Context) {
			auth.SetIdentity(c, 7, "juan@example.com", auth.RoleMember)
			c.Next()
		})
	}

	r.POST("/availability/", h.UpsertSlot)
	r.POST("/availability/bulk", h.ProvisionRange)
	r.GET("/availability/bar/:id", h.ListAvailability)
	r.GET("/availability/:id", h.GetSlot)
	r.DELETE("/availability/:id", h.DeleteSlot)

	r.POST("/reservations/", h.CreateReservation)
	r.GET("/reservations/my-reservations", h.ListMyReservations)
	r.GET("/reservations/bar/:id", h.ListBarReservations)
	r.PUT("/reservations/:id/cancel", h.CancelReservation)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const bookingBody = `{
	"bar_id": 1,
	"full_name": "Juan Pérez",
	"phone": "+57 300 1234567",
	"num_people": 4,
	"reservation_date": "2024-11-15",
	"reservation_time": "22:00"
}`

func TestHandler_CreateReservation(t *testing.T) {
	svc := new(MockService)
	svc.On("Book", mock.Anything, 7, BookingInput{
		BarID:           1,
		FullName:        "Juan Pérez",
		Phone:           "+57 300 1234567",
		PartySize:       4,
		ReservationDate: "2024-11-15",
		ReservationTime: "22:00",
	}).Return(&Reservation{ID: 100, UserID: 7, BarID: 1, Status: StatusConfirmed, ReservationTime: "22:00"}, nil)

	w := doJSON(setupLedgerRouter(svc, false), http.MethodPost, "/reservations/", bookingBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 100, got.ID)
	assert.Equal(t, StatusConfirmed, got.Status)
	svc.AssertExpectations(t)
}

func TestHandler_CreateReservation_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"capacity exceeded", ErrCapacityExceeded, http.StatusBadRequest, "capacity_exceeded"},
		{"unknown bar", fmt.Errorf("bar 1: %w", ErrNotFound), http.StatusBadRequest, "not_found"},
		{"validation", fmt.Errorf("%w: phone is required", ErrValidation), http.StatusBadRequest, "validation_failed"},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Book", mock.Anything, 7, mock.Anything).Return(nil, tt.err)

			w := doJSON(setupLedgerRouter(svc, false), http.MethodPost, "/reservations/", bookingBody)
			assert.Equal(t, tt.status, w.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Error, "connection refused")
			}
		})
	}
}

func TestHandler_CreateReservation_BindFailures(t *testing.T) {
	tests := map[string]string{
		"malformed json": `{"bar_id": 1,`,
		"missing fields": `{"bar_id": 1}`,
		"bad date":       `{"bar_id": 1, "full_name": "Ana", "phone": "1", "num_people": 2, "reservation_date": "15/11/2024", "reservation_time": "22:00"}`,
		"zero people":    `{"bar_id": 1, "full_name": "Ana", "phone": "1", "num_people": 0, "reservation_date": "2024-11-15", "reservation_time": "22:00"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := new(MockService)
			w := doJSON(setupLedgerRouter(svc, false), http.MethodPost, "/reservations/", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation_failed")
			svc.AssertNotCalled(t, "Book", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_RequiresIdentity(t *testing.T) {
	svc := new(MockService)
	r := setupLedgerRouter(svc, true)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/reservations/", bookingBody).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodGet, "/reservations/my-reservations", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPut, "/reservations/3/cancel", "").Code)
}

func TestHandler_CancelReservation(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		setup  func(*MockService)
		status int
	}{
		{"cancelled", "/reservations/3/cancel", func(m *MockService) {
			m.On("Cancel", mock.Anything, 3, 7).Return(&Reservation{ID: 3, Status: StatusCancelled}, nil)
		}, http.StatusOK},
		{"not owner", "/reservations/4/cancel", func(m *MockService) {
			m.On("Cancel", mock.Anything, 4, 7).Return(nil, ErrForbidden)
		}, http.StatusBadRequest},
		{"missing", "/reservations/5/cancel", func(m *MockService) {
			m.On("Cancel", mock.Anything, 5, 7).Return(nil, ErrNotFound)
		}, http.StatusBadRequest},
		{"bad id", "/reservations/x/cancel", func(*MockService) {}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)

			w := doJSON(setupLedgerRouter(svc, false), http.MethodPut, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_CancelReservation_Body(t *testing.T) {
	svc := new(MockService)
	svc.On("Cancel", mock.Anything, 3, 7).Return(&Reservation{ID: 3, Status: StatusCancelled}, nil)

	w := doJSON(setupLedgerRouter(svc, false), http.MethodPut, "/reservations/3/cancel", "")

	var resp CancelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Reservation cancelled", resp.Message)
	assert.Equal(t, StatusCancelled, resp.Reservation.Status)
}

func TestHandler_UpsertSlot(t *testing.T) {
	svc := new(MockService)
	svc.On("UpsertSlot", mock.Anything, SlotInput{BarID: 1, Date: "2024-11-15", TimeSlot: "22:00", TotalCapacity: 0}).
		Return(&Slot{ID: 10, BarID: 1, Date: NewDate(2024, 11, 15), TimeSlot: "22:00"}, nil)

	r := setupLedgerRouter(svc, false)
	w := doJSON(r, http.MethodPost, "/availability/", `{"bar_id": 1, "date": "2024-11-15", "time_slot": "22:00", "total_capacity": 0}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"available_capacity":0`)

	w = doJSON(r, http.MethodPost, "/availability/", `{"bar_id": 1, "date": "2024-11-15", "time_slot": "22:00"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "UpsertSlot", 1)
}

func TestHandler_UpsertSlot_ShrinkConflict(t *testing.T) {
	svc := new(MockService)
	svc.On("UpsertSlot", mock.Anything, mock.Anything).Return(nil, ErrConflict)

	w := doJSON(setupLedgerRouter(svc, false), http.MethodPost, "/availability/",
		`{"bar_id": 1, "date": "2024-11-15", "time_slot": "22:00", "total_capacity": 1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"conflict"`)
}

func TestHandler_ProvisionRange(t *testing.T) {
	svc := new(MockService)
	days := 3
	svc.On("ProvisionRange", mock.Anything, ProvisionInput{BarID: 2, Days: &days}).Return(12, nil)

	w := doJSON(setupLedgerRouter(svc, false), http.MethodPost, "/availability/bulk", `{"bar_id": 2, "days": 3}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp api.CountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Count)
	assert.Equal(t, "Created 12 slots", resp.Message)
}

func TestHandler_ListAvailability(t *testing.T) {
	svc := new(MockService)
	svc.On("ListAvailability", mock.Anything, 1, "2024-11-10", "2024-11-20").
		Return([]Slot{{ID: 1, TimeSlot: "22:00", TotalCapacity: 20, ReservedCount: 5}}, nil)
	svc.On("ListAvailability", mock.Anything, 2, "", "").Return([]Slot{}, nil)

	r := setupLedgerRouter(svc, true)

	w := doJSON(r, http.MethodGet, "/availability/bar/1?start_date=2024-11-10&end_date=2024-11-20", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available_capacity":15`)

	w = doJSON(r, http.MethodGet, "/availability/bar/2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/availability/bar/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetAndDeleteSlot(t *testing.T) {
	svc := new(MockService)
	svc.On("GetSlot", mock.Anything, 10).Return(&Slot{ID: 10}, nil)
	svc.On("GetSlot", mock.Anything, 11).Return(nil, ErrNotFound)
	svc.On("DeleteSlot", mock.Anything, 10).Return(nil)
	svc.On("DeleteSlot", mock.Anything, 12).Return(ErrConflict)

	r := setupLedgerRouter(svc, false)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/availability/10", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/availability/11", "").Code)

	w := doJSON(r, http.MethodDelete, "/availability/10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Slot deleted")

	w = doJSON(r, http.MethodDelete, "/availability/12", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"conflict"`)
}

func TestHandler_ListReservations(t *testing.T) {
	svc := new(MockService)
	svc.On("ListUserReservations", mock.Anything, 7).Return([]Reservation{{ID: 1}, {ID: 2}}, nil)
	svc.On("ListBarReservations", mock.Anything, 3).Return([]Reservation{}, nil)

	r := setupLedgerRouter(svc, false)

	w := doJSON(r, http.MethodGet, "/reservations/my-reservations", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var mine []Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine, 2)

	w = doJSON(r, http.MethodGet, "/reservations/bar/3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
