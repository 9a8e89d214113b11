package domain

import (
	"testing"

	"recruit_pipeline_backend/platform/apperr"
)

func TestNormalizePositionStatus(t *testing.T) {
	cases := map[string]string{
		"On Hold":  PositionStatusOnHold,
		"OPEN":     PositionStatusOpen,
		" closed ": PositionStatusClosed,
		"":         PositionStatusOpen,
	}
	for in, want := range cases {
		got, err := NormalizePositionStatus(in)
		if err != nil || got != want {
			t.Fatalf("NormalizePositionStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := NormalizePositionStatus("archived"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
