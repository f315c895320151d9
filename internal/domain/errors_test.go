package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{404, ErrNotFound},
		{StatusNetwork, ErrUnavailable},
		{408, ErrUnavailable},
		{500, ErrBackend},
		{401, ErrBackend},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := fmt.Errorf("search: %w", NewAPIError(tt.status, "/api/search", "boom"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAPIError_Message(t *testing.T) {
	err := NewAPIError(500, "/api/search", "Request failed with status 500")
	assert.Equal(t, "/api/search: Request failed with status 500", err.Error())
	assert.Equal(t, "Request failed with status 500", APIMessage(fmt.Errorf("wrap: %w", err)))
	assert.Equal(t, "plain", APIMessage(errors.New("plain")))

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "bare", (&APIError{Message: "bare"}).Error())
}

func TestBearerToken(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, BearerTokenFromContext(ctx))
	assert.Equal(t, ctx, ContextWithBearerToken(ctx, ""))
	assert.Equal(t, "tok", BearerTokenFromContext(ContextWithBearerToken(ctx, "tok")))
}
