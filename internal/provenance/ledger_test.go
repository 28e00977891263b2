package provenance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openLedger(t *testing.T, path string) *Ledger {
	t.Helper()
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	l := openLedger(t, path)

	for _, version := range []string{"1.0.0", "1.1.0"} {
		err := l.Record(Record{
			LibraryName:      "rate-limiter",
			LibraryVersion:   version,
			TargetRepo:       "github.com/example/app",
			ValidationPassed: true,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	latest, err := l.Latest("rate-limiter")
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.LibraryVersion != "1.1.0" {
		t.Errorf("latest = %+v, want version 1.1.0", latest)
	}

	history, err := l.History("rate-limiter")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d records, want 2", len(history))
	}
	if history[0].LibraryVersion != "1.0.0" || history[1].LibraryVersion != "1.1.0" {
		t.Errorf("history out of order: %+v", history)
	}
	if history[0].AppliedAt == "" {
		t.Error("applied_at was not auto-filled")
	}
}

func TestLatestForUnknownLibrary(t *testing.T) {
	l := openLedger(t, filepath.Join(t.TempDir(), "ledger.jsonl"))

	latest, err := l.Latest("never-applied")
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Errorf("latest = %+v, want nil", latest)
	}
}

func TestHistoryFilters(t *testing.T) {
	l := openLedger(t, filepath.Join(t.TempDir(), "ledger.jsonl"))

	for _, name := range []string{"a", "b", "a"} {
		if err := l.Record(Record{LibraryName: name, LibraryVersion: "1.0.0", TargetRepo: "repo"}); err != nil {
			t.Fatal(err)
		}
	}

	onlyA, err := l.History("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyA) != 2 {
		t.Errorf("filtered history = %d, want 2", len(onlyA))
	}

	all, err := l.History("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("full history = %d, want 3", len(all))
	}
}

func TestLibraryNamesMostRecentFirst(t *testing.T) {
	l := openLedger(t, filepath.Join(t.TempDir(), "ledger.jsonl"))

	for _, name := range []string{"old", "mid", "old", "new"} {
		if err := l.Record(Record{LibraryName: name, LibraryVersion: "1.0.0", TargetRepo: "repo"}); err != nil {
			t.Fatal(err)
		}
	}

	names, err := l.LibraryNames()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"new", "old", "mid"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestChainVerifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	l := openLedger(t, path)

	for i := 0; i < 3; i++ {
		if err := l.Record(Record{LibraryName: "lib", LibraryVersion: "1.0.0", TargetRepo: "repo"}); err != nil {
			t.Fatal(err)
		}
	}

	res := Verify(path)
	if !res.Valid {
		t.Fatalf("expected valid chain, got %+v", res)
	}
	if res.Records != 3 {
		t.Errorf("records = %d, want 3", res.Records)
	}
}

func TestTamperingBreaksChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	l := openLedger(t, path)

	for i := 0; i < 3; i++ {
		if err := l.Record(Record{LibraryName: "lib", LibraryVersion: "1.0.0", TargetRepo: "repo"}); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), `"1.0.0"`, `"9.9.9"`, 1)
	if tampered == string(data) {
		t.Fatal("tampering had no effect")
	}
	if err := os.WriteFile(path, []byte(tampered), 0o600); err != nil {
		t.Fatal(err)
	}

	res := Verify(path)
	if res.Valid {
		t.Fatal("tampered ledger must not verify")
	}
	if res.ErrorLine != 2 {
		t.Errorf("error line = %d, want 2 (the link after the edited record)", res.ErrorLine)
	}
}

func TestReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.jsonl")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Record(Record{LibraryName: "lib", LibraryVersion: "1.0.0", TargetRepo: "repo"}); err != nil {
		t.Fatal(err)
	}
	l.Close()

	l = openLedger(t, path)
	if err := l.Record(Record{LibraryName: "lib", LibraryVersion: "1.1.0", TargetRepo: "repo"}); err != nil {
		t.Fatal(err)
	}

	res := Verify(path)
	if !res.Valid || res.Records != 2 {
		t.Errorf("reopened ledger chain broken: %+v", res)
	}
}

func TestVerifyMissingFileIsEmptyChain(t *testing.T) {
	res := Verify(filepath.Join(t.TempDir(), "absent.jsonl"))
	if !res.Valid {
		t.Errorf("a ledger that does not exist yet is an intact empty chain, got %+v", res)
	}
	if res.Records != 0 {
		t.Errorf("records = %d, want 0", res.Records)
	}
}
