package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input  string
		region string
		want   string
	}{
		{"(415) 555-2671", "US", "+14155552671"},
		{"020 123 4567", "NL", "+31201234567"},
		{"+44 20 7946 0958", "US", "+442079460958"},
		{"  ", "US", ""},
		{"not a number", "US", "not a number"},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input, tc.region); got != tc.want {
			t.Errorf("NormalizeE164(%q, %q) = %q, want %q", tc.input, tc.region, got, tc.want)
		}
	}
}

func TestDisplayLeavesLocalNumbersAlone(t *testing.T) {
	if got := Display("555-2671"); got != "555-2671" {
		t.Fatalf("expected local number unchanged, got %q", got)
	}
	if got := Display("+14155552671"); got != "+1 415-555-2671" {
		t.Fatalf("unexpected international format %q", got)
	}
}
