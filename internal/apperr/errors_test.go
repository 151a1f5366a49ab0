package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetails_KeepsIdentity(t *testing.T) {
	err := ErrGatewayRejected.WithDetails("status=401")

	assert.True(t, errors.Is(err, ErrGatewayRejected))
	assert.False(t, errors.Is(err, ErrGatewayTimeout))
	assert.Equal(t, "failed to initiate payment: status=401", err.Error())
	assert.Empty(t, ErrGatewayRejected.Details())
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("initiate: %w", errors.Wrap(ErrGatewayTimeout, "paystack"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusGatewayTimeout, appErr.HTTPCode())
	assert.Equal(t, "GATEWAY_TIMEOUT", appErr.ErrorCode())
	assert.True(t, appErr.Retryable())
}

func TestAs_PlainError(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}

func TestRetryableOnlyForTransientGatewayFailures(t *testing.T) {
	assert.True(t, ErrGatewayUnavailable.Retryable())
	assert.False(t, ErrGatewayRejected.Retryable())
	assert.False(t, ErrUnmatchedReference.Retryable())
}
