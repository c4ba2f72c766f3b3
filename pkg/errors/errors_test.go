package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeEmptyCart, http.StatusBadRequest},
		{CodeOrderNotFound, http.StatusBadRequest},
		{CodePaymentNotCompleted, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeOrderUpdateFailed, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.status, MetadataFor(tc.code).HTTPStatus)
		})
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestOrderUpdateFailedIsRetryableAndDistinct(t *testing.T) {
	meta := MetadataFor(CodeOrderUpdateFailed)
	assert.True(t, meta.Retryable)
	assert.True(t, meta.DetailsAllowed)
	assert.NotEqual(t, MetadataFor(CodeInternal).PublicMessage, meta.PublicMessage)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := Wrap(CodeDependency, cause, "stripe call failed")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDependency, err.Code())
	assert.Equal(t, "DEPENDENCY_ERROR: stripe call failed", err.Error())
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	inner := New(CodeOrderNotFound, "no such order")
	wrapped := fmt.Errorf("loading order: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeOrderNotFound, typed.Code())
}

func TestHasCode(t *testing.T) {
	err := New(CodePaymentNotCompleted, "intent still processing")
	assert.True(t, HasCode(err, CodePaymentNotCompleted))
	assert.False(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(errors.New("plain"), CodeValidation))
}

func TestDumpIncludesCodeAndChain(t *testing.T) {
	cause := errors.New("root")
	err := Wrap(CodeOrderUpdateFailed, cause, "update did not apply")

	d := Dump(err)
	assert.Equal(t, CodeOrderUpdateFailed, d.Code)
	assert.Len(t, d.Chain, 2)
	assert.Contains(t, d.TopMessage, "update did not apply")
}
