package uid

import "testing"

func TestUUIDGenerate(t *testing.T) {
	g := NewUUID()
	seen := make(map[string]struct{}, 100)

	for range 100 {
		id := g.Generate()
		if !Valid(id) {
			t.Fatalf("generated id %q is not a uuid", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	if Valid("not-a-uuid") {
		t.Fatalf("expected invalid")
	}
	if !Valid("0190b4a1-7c1e-7a3b-9c2d-1e2f3a4b5c6d") {
		t.Fatalf("expected valid")
	}
}
