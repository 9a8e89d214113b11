package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("position not found"), http.StatusNotFound},
		{Validation("bad"), http.StatusUnprocessableEntity},
		{Conflict("dup"), http.StatusConflict},
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthorized("no"), http.StatusUnauthorized},
		{Store("get position", errors.New("conn reset")), http.StatusInternalServerError},
		{Internal("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%q: expected %d, got %d", tc.err.Message, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := NotFound("candidate not found")
	wrapped := fmt.Errorf("build report: %w", base)

	if !Is(wrapped, KindNotFound) {
		t.Fatalf("expected wrapped error to be KindNotFound, got %v", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected plain error to be KindUnknown")
	}
}

func TestStoreErrorKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Store("insert application", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected store error to unwrap to its cause")
	}
	if err.Message != "operation failed, please retry" {
		t.Fatalf("unexpected caller message %q", err.Message)
	}
}

func TestValidationFieldsDetails(t *testing.T) {
	err := ValidationFields(FieldErrors{"email": "email is required"})

	fields, ok := err.Details.(FieldErrors)
	if !ok {
		t.Fatalf("expected FieldErrors details, got %T", err.Details)
	}
	if fields["email"] != "email is required" {
		t.Fatalf("unexpected field message %q", fields["email"])
	}
}
