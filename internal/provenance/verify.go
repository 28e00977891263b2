package provenance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Records   int    `json:"records"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify reads a ledger file and validates its hash chain, returning
// details about the first broken link if any.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No ledger yet is an empty, intact chain, same as History.
			return VerifyResult{Valid: true}
		}
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	var prevLine []byte

	for scanner.Scan() {
		lineNum++
		line := append([]byte(nil), scanner.Bytes()...)

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return VerifyResult{
				Error:     fmt.Sprintf("parse error: %v", err),
				ErrorLine: lineNum,
			}
		}

		if lineNum == 1 {
			if rec.PrevHash != GenesisHash {
				return VerifyResult{
					Error:     fmt.Sprintf("first record prev_hash is %q, expected genesis hash", rec.PrevHash),
					ErrorLine: 1,
				}
			}
		} else if rec.PrevHash != HashLine(prevLine) {
			return VerifyResult{
				Error:     fmt.Sprintf("hash mismatch: expected %s, got %s", HashLine(prevLine), rec.PrevHash),
				ErrorLine: lineNum,
			}
		}

		prevLine = line
	}

	if err := scanner.Err(); err != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", err)}
	}

	return VerifyResult{Valid: true, Records: lineNum}
}
