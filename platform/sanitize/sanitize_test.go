package sanitize

import (
	"reflect"
	"testing"
)

func TestText(t *testing.T) {
	if got := Text("  <b>Senior</b>   Engineer \n"); got != "Senior Engineer" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Text("&lt;script&gt;alert(1)&lt;/script&gt;Ada"); got != "alert(1)Ada" {
		t.Fatalf("expected encoded tags to be stripped, got %q", got)
	}
}

func TestMultilineKeepsParagraphs(t *testing.T) {
	in := "Led payments team.  \r\n\r\n\r\n\r\nShipped <i>ledger</i> rewrite."
	want := "Led payments team.\n\nShipped ledger rewrite."
	if got := Multiline(in); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestList(t *testing.T) {
	got := List([]string{" Go ", "", "Kubernetes", "Go", "<b>SQL</b>"})
	want := []string{"Go", "Kubernetes", "SQL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
