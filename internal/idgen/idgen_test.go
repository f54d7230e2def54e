package idgen

import (
	"regexp"
	"testing"
)

func TestNew_Format(t *testing.T) {
	for _, kind := range []Kind{KindLoop, KindStream} {
		pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(string(kind)) + `[0-9a-z]{12}$`)
		id, err := New(kind)
		if err != nil {
			t.Fatalf("New(%q) error: %v", kind, err)
		}
		if !pattern.MatchString(id) {
			t.Errorf("New(%q) = %q, does not match %s", kind, id, pattern)
		}
	}
}

func TestNew_Uniqueness(t *testing.T) {
	const count = 5_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id := MustNew(KindLoop)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
