package util

import "testing"

func TestUserKey(t *testing.T) {
	id := "user-12345"
	got := UserKey(id)
	if got != UserKey(id) {
		t.Fatalf("expected stable key, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("key contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestUserKeyAnonymous(t *testing.T) {
	for _, id := range []string{"", "   "} {
		if got := UserKey(id); got != "anonymous" {
			t.Fatalf("UserKey(%q) = %q, want anonymous", id, got)
		}
	}
}
