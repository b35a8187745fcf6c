package portid

import "testing"

func TestNextIsUnique(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 1000; i++ {
		id := Next()
		if seen[id] {
			t.Fatalf("Next() returned duplicate id 0x%x after %d calls", id, i)
		}
		seen[id] = true
	}
}
