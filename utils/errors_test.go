package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Capacity("items", 50, 50))

	assert.True(t, errors.Is(err, ErrCapacity))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, http.StatusForbidden, StatusFor(err))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "items limit reached for your plan (50/50)", appErr.Message)
	assert.Equal(t, 50, appErr.Details["limit"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(Validation("bad")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(&AppError{Kind: KindSignature}))
	assert.Equal(t, http.StatusConflict, StatusFor(Duplicate("email")))
	assert.Equal(t, http.StatusNotFound, StatusFor(NotFound("category")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(Backend("db", errors.New("down"))))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("plain")))
}

func TestBackendUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Backend("create user", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create user failed", err.Error())
}
