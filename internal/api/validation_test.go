package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Date  string `json:"date" binding:"required,isodate" validate:"required,isodate"`
	Count int    `json:"count" binding:"gte=1" validate:"gte=1"`
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	assert.NoError(t, v.Struct(sampleRequest{Date: "2024-11-15", Count: 1}))

	err := v.Struct(sampleRequest{Date: "15/11/2024", Count: 0})
	require.Error(t, err)

	details := ValidationErrors(err)
	require.Len(t, details, 2)
	assert.Equal(t, "Date", details[0].Field)
	assert.Equal(t, "isodate", details[0].Tag)
	assert.Equal(t, "Date must be a date in YYYY-MM-DD format", details[0].Message)
	assert.Equal(t, "Count must be greater than or equal to 1", details[1].Message)
}

func TestValidationErrors_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationErrors(assert.AnError))
}

func TestRespondBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "Name", body.Details[0].Field)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name": `))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_failed")
}
