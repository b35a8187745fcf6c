package netns

import (
	"os"
	"path/filepath"
	"testing"
)

func mkFakePid(t *testing.T, procfs, pid, nsTarget string) {
	t.Helper()
	dir := filepath.Join(procfs, pid, "ns")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(nsTarget, filepath.Join(dir, "net")); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	procfs := t.TempDir()
	mkFakePid(t, procfs, "100", "net:[4026531840]")
	mkFakePid(t, procfs, "101", "net:[4026531840]") // shares 100's namespace
	mkFakePid(t, procfs, "200", "net:[4026532000]")
	// Non-numeric and malformed entries must be skipped, not error the call.
	if err := os.MkdirAll(filepath.Join(procfs, "self"), 0o755); err != nil {
		t.Fatal(err)
	}
	mkFakePid(t, procfs, "300", "not-a-namespace-link")

	pids, err := List(procfs)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pids) != 2 {
		t.Fatalf("List() = %v, want 2 deduplicated entries", pids)
	}
	seen := map[string]bool{}
	for _, p := range pids {
		seen[p] = true
	}
	if !seen["200"] {
		t.Errorf("List() = %v, want it to include pid 200", pids)
	}
	if seen["100"] && seen["101"] {
		t.Errorf("List() = %v, want only one of pid 100/101 (shared namespace)", pids)
	}
}

func TestListUnreadableProcfs(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != ErrCantReadProc {
		t.Errorf("List() error = %v, want ErrCantReadProc", err)
	}
}

func TestParseNamespaceID(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantOk  bool
	}{
		{"net:[4026531840]", "4026531840", true},
		{"mnt:[123]", "123", true},
		{"garbage", "", false},
		{"net:[]", "", false},
		{"net:[abc]", "", false},
	}
	for _, c := range cases {
		got, ok := parseNamespaceID(c.in)
		if ok != c.wantOk || (ok && got != c.want) {
			t.Errorf("parseNamespaceID(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.wantOk)
		}
	}
}
