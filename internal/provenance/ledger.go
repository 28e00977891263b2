package provenance

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenesisHash is the prev_hash of the first record in a new ledger.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Ledger is an append-only JSONL provenance ledger for one target
// repository. Appends are serialized through a mutex; readers see a
// possibly-stale snapshot without locking, which is safe because records
// are never mutated in place.
type Ledger struct {
	path     string
	file     *os.File
	prevHash string
	mu       sync.Mutex
}

// Open opens (or creates) the ledger file for appending. If the file
// already exists, the last line is read back to recover the chain tail.
func Open(path string) (*Ledger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("provenance: create directory: %w", err)
	}

	prevHash := GenesisHash
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		last, err := lastLine(path)
		if err != nil {
			return nil, err
		}
		if len(last) > 0 {
			prevHash = HashLine(last)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("provenance: open ledger: %w", err)
	}

	return &Ledger{
		path:     path,
		file:     file,
		prevHash: prevHash,
	}, nil
}

// Record appends one record to the ledger, auto-filling AppliedAt with the
// current UTC time when the caller left it empty and linking the hash chain.
func (l *Ledger) Record(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.AppliedAt == "" {
		rec.AppliedAt = time.Now().UTC().Format(TimestampFormat)
	}
	rec.PrevHash = l.prevHash

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("provenance: marshal record: %w", err)
	}

	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("provenance: write record: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("provenance: sync: %w", err)
	}

	l.prevHash = HashLine(line)
	return nil
}

// History returns all records in file order (chronological under the
// single-writer assumption), optionally filtered to one library name.
// An empty name returns everything; a ledger that does not exist yet
// returns no records.
func (l *Ledger) History(libraryName string) ([]Record, error) {
	return readLedger(l.path, libraryName)
}

// Latest returns the last record for the named library, or nil if the
// library has never been recorded.
func (l *Ledger) Latest(libraryName string) (*Record, error) {
	records, err := l.History(libraryName)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[len(records)-1], nil
}

// LibraryNames returns every distinct library name in the ledger,
// most-recently-seen first.
func (l *Ledger) LibraryNames() ([]string, error) {
	records, err := l.History("")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	var names []string
	for i := len(records) - 1; i >= 0; i-- {
		name := records[i].LibraryName
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// Close flushes and closes the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}

func readLedger(path, libraryName string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("provenance: open ledger: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue // skip malformed lines
		}
		if libraryName != "" && rec.LibraryName != libraryName {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("provenance: read ledger: %w", err)
	}
	return records, nil
}

func lastLine(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("provenance: read existing ledger: %w", err)
	}
	defer f.Close()

	var last []byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		last = append(last[:0:0], scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("provenance: scan existing ledger: %w", err)
	}
	return last, nil
}
