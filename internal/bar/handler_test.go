package bar

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupBarRouter(repo *MockRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo))

	r := gin.New()
	r.GET("/bars/", h.ListBars)
	r.GET("/bars/:id", h.GetBar)
	r.POST("/bars/", h.CreateBar)
	r.PUT("/bars/:id", h.UpdateBar)
	return r
}

func TestHandler_ListBars(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListActive", mock.Anything).Return([]Bar{{ID: 1, Name: "Dakiti Club"}}, nil)

	w := httptest.NewRecorder()
	setupBarRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bars/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Dakiti Club"`)
}

func TestHandler_GetBar(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		setup  func(*MockRepository)
		status int
	}{
		{"found", "/bars/1", func(m *MockRepository) {
			m.On("GetByID", mock.Anything, 1).Return(&Bar{ID: 1}, nil)
		}, http.StatusOK},
		{"missing", "/bars/9", func(m *MockRepository) {
			m.On("GetByID", mock.Anything, 9).Return(nil, ErrBarNotFound)
		}, http.StatusNotFound},
		{"bad id", "/bars/abc", func(*MockRepository) {}, http.StatusBadRequest},
		{"db failure", "/bars/2", func(m *MockRepository) {
			m.On("GetByID", mock.Anything, 2).Return(nil, errors.New("connection reset"))
		}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setup(repo)

			w := httptest.NewRecorder()
			setupBarRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_CreateBar_Validation(t *testing.T) {
	repo := new(MockRepository)

	req := httptest.NewRequest(http.MethodPost, "/bars/", bytes.NewBufferString(`{"name": "Clandestino"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupBarRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_CreateBar(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("CreateBarRequest")).
		Return(&Bar{ID: 3, Name: "Clandestino"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/bars/",
		bytes.NewBufferString(`{"name": "Clandestino", "address": "Calle 84A # 12-50", "music_genres": ["Salsa"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupBarRouter(repo).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}
