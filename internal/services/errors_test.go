package services_test

import (
	"errors"
	"net/http"
	"testing"

	"barberq/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "queue", "get entry", "id 7", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("errors.Is(ErrNotFound) = false for %v", err)
	}
	want := "not found: queue: get entry: id 7"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := services.Wrap(services.ErrConflict, "storage", "commit", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause lost: %v", err)
	}
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("marker lost: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToConflict(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("nil marker should default to ErrConflict, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrInvalidInput, "queue", "reorder", "invalid order", nil), http.StatusBadRequest},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
