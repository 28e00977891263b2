// Package drift classifies divergence between a previously applied library
// and its source of truth: version drift against the latest published
// version, validation drift against the consumer repository's current
// behavior. Sub-check failures count as drift: the detector fails safe
// toward "drift detected", never silently clean.
package drift

import (
	"context"
	"fmt"

	"libgov/internal/provenance"
	"libgov/internal/runner"
)

// NeverApplied is the sentinel applied-version for libraries with no
// provenance record. Not an error: a library that was never applied cannot
// have drifted.
const NeverApplied = "(never applied)"

// Type names one kind of divergence.
type Type string

const (
	VersionDrift        Type = "version_drift"
	ImplementationDrift Type = "implementation_drift"
	ValidationDrift     Type = "validation_drift"
	// CheckFailed marks a drift check that could not complete. The library
	// still counts as drifted, but the report carries the infrastructure
	// fault rather than claiming its hooks stopped passing.
	CheckFailed Type = "check_failed"
)

// Report is the outcome of one drift check. Created fresh each time and not
// persisted by the detector.
type Report struct {
	LibraryName           string   `json:"library_name"`
	AppliedVersion        string   `json:"applied_version"`
	LatestVersion         string   `json:"latest_version,omitempty"`
	DriftTypes            []Type   `json:"drift_types"`
	Details               []string `json:"details,omitempty"`
	ValidationStillPasses *bool    `json:"validation_still_passes"`
}

// HasDrift reports whether any divergence was found.
func (r *Report) HasDrift() bool {
	return len(r.DriftTypes) > 0
}

func (r *Report) addDrift(t Type, detail string) {
	r.DriftTypes = append(r.DriftTypes, t)
	r.Details = append(r.Details, detail)
}

// Detector combines the provenance ledger with fresh conformance runs.
type Detector struct {
	ledger *provenance.Ledger
	runner *runner.Runner
}

// NewDetector wires a detector to its ledger and runner. Both are explicit
// collaborators; the detector holds no other state.
func NewDetector(ledger *provenance.Ledger, r *runner.Runner) *Detector {
	return &Detector{ledger: ledger, runner: r}
}

// Check classifies drift for one library. latestVersion and libraryPath are
// optional: an empty latestVersion skips the version check, an empty
// libraryPath skips re-validation. The returned error covers ledger read
// faults only: a failing re-validation is drift, not an error.
func (d *Detector) Check(ctx context.Context, libraryName, latestVersion, libraryPath string) (*Report, error) {
	report := &Report{
		LibraryName:   libraryName,
		LatestVersion: latestVersion,
	}

	latest, err := d.ledger.Latest(libraryName)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		report.AppliedVersion = NeverApplied
		report.Details = append(report.Details, fmt.Sprintf("library %q has never been applied", libraryName))
		return report, nil
	}
	report.AppliedVersion = latest.LibraryVersion

	if latestVersion != "" && latestVersion != latest.LibraryVersion {
		report.addDrift(VersionDrift, fmt.Sprintf("applied version %s, latest version %s",
			latest.LibraryVersion, latestVersion))
	}

	if libraryPath != "" {
		d.checkValidation(ctx, libraryPath, report)
	}

	return report, nil
}

// checkValidation re-runs the full conformance pipeline against the current
// repository state. A runner fault is treated as validation drift too.
func (d *Detector) checkValidation(ctx context.Context, libraryPath string, report *Report) {
	res, err := d.runner.RunFile(ctx, libraryPath)
	if err != nil {
		passes := false
		report.ValidationStillPasses = &passes
		report.addDrift(ValidationDrift, fmt.Sprintf("conformance re-run failed: %v", err))
		return
	}

	passes := res.AllPassed()
	report.ValidationStillPasses = &passes
	if !passes {
		report.addDrift(ValidationDrift, "validation no longer passes against the current repository state")
	}
}

// CheckAll runs a shallow, provenance-only check for every distinct library
// in the ledger, most-recently-seen first. One library's fault is recorded
// in its report and does not abort the batch.
func (d *Detector) CheckAll(ctx context.Context) ([]*Report, error) {
	names, err := d.ledger.LibraryNames()
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(names))
	for _, name := range names {
		report, err := d.Check(ctx, name, "", "")
		if err != nil {
			report = faultReport(name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// faultReport classifies a drift check that could not complete, failing safe
// toward drift without asserting validation drift.
func faultReport(libraryName string, err error) *Report {
	report := &Report{LibraryName: libraryName}
	report.addDrift(CheckFailed, fmt.Sprintf("drift check failed: %v", err))
	return report
}
