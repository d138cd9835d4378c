package dErrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode_WalksChain(t *testing.T) {
	base := errors.New("pq: deadlock detected")
	wrapped := Wrap(base, CodeConflict, "nda insert conflicted")
	outer := Wrap(wrapped, CodeInternal, "sign failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeConflict))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.True(t, errors.Is(outer, base), "cause must stay reachable via errors.Is")
}

func TestHasCode_UntypedError(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInsufficientFunds, CodeOf(New(CodeInsufficientFunds, "balance too low")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("raw")))
	assert.Equal(t, CodeValidation, CodeOf(fmt.Errorf("handler: %w", New(CodeValidation, "bad amount"))))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:        http.StatusBadRequest,
		CodeInsufficientFunds: http.StatusBadRequest,
		CodeNotFound:          http.StatusNotFound,
		CodeAlreadySigned:     http.StatusConflict,
		CodeForbidden:         http.StatusForbidden,
		CodeUnauthorized:      http.StatusUnauthorized,
		CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}

func TestErrorString(t *testing.T) {
	err := Wrap(errors.New("boom"), CodeInternal, "purchase unit failed")
	require.Contains(t, err.Error(), "internal_error")
	require.Contains(t, err.Error(), "boom")
}
