// Package provenance keeps the append-only ledger of library applications:
// one JSONL file per target repository, SHA-256 hash-chained so tampering
// with history is detectable. Records are never updated or deleted.
package provenance

// TimestampFormat is the layout used in record timestamps (UTC, ISO-8601).
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Record is one applied-library event. All fields are flat strings/bools so
// json.Marshal field order is deterministic: the hash chain depends on it.
type Record struct {
	LibraryName        string `json:"library_name"`
	LibraryVersion     string `json:"library_version"`
	AppliedAt          string `json:"applied_at"`
	AppliedBy          string `json:"applied_by,omitempty"`
	TargetRepo         string `json:"target_repo"`
	TargetBranch       string `json:"target_branch,omitempty"`
	ValidationPassed   bool   `json:"validation_passed"`
	ValidationEvidence string `json:"validation_evidence,omitempty"`
	CommitSHA          string `json:"commit_sha,omitempty"`
	PrevHash           string `json:"prev_hash"`
}
