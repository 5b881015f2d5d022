package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteJSON(w, http.StatusCreated, map[string]int{"id": 1}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestGeneralError(t *testing.T) {
	got := GeneralError(errors.New("boom"))
	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, got)
}

func TestValidationError(t *testing.T) {
	type sample struct {
		Name  string  `validate:"required"`
		Email string  `validate:"required,email"`
		GPA   float64 `validate:"gte=0,lte=4"`
	}

	err := validator.New().Struct(sample{Email: "not-an-email", GPA: 4.5})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	got := ValidationError(verrs)
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t,
		"field Name is required, field Email must be a valid email address, field GPA must be at most 4",
		got.Error)
}
