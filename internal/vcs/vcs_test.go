package vcs

import "testing"

func TestParsePorcelainStatus(t *testing.T) {
	out := " M pkg/auth.go\n?? new_file.go\nR100 old.go -> new.go\nD  removed.go"
	entries := parsePorcelainStatus(out)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Status != " M" || entries[0].Path != "pkg/auth.go" {
		t.Errorf("entry[0] = %+v", entries[0])
	}
	if entries[1].Status != "??" || entries[1].Path != "new_file.go" {
		t.Errorf("entry[1] = %+v", entries[1])
	}
	if entries[2].OldPath != "old.go" || entries[2].Path != "new.go" {
		t.Errorf("entry[2] = %+v", entries[2])
	}
	if entries[3].Status != "D " || entries[3].Path != "removed.go" {
		t.Errorf("entry[3] = %+v", entries[3])
	}
}

func TestParsePorcelainStatusEmpty(t *testing.T) {
	if got := parsePorcelainStatus(""); got != nil {
		t.Errorf("parsePorcelainStatus(\"\") = %v, want nil", got)
	}
}
