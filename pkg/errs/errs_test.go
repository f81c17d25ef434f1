package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Domain, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Unauthorized, http.StatusUnauthorized},
		{Store, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(New(tc.kind, "boom")))
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestWrapPreservesKindThroughChain(t *testing.T) {
	inner := NotFoundf("article %d not found", 7)
	outer := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, NotFound, KindOf(outer))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(outer))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Store, "failed to query", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to query")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSentinelComparison(t *testing.T) {
	sentinel := New(Domain, "cart is empty")
	wrapped := fmt.Errorf("checkout: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, New(Domain, "no cart for this user")))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Store, KindOf(errors.New("boom")))
}
