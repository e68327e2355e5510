package domain

import "time"

// DefaultReportDir is where reports are stored relative to the working directory.
const DefaultReportDir = ".reuse/reports"

// ReportRecord is a stored caching report.
type ReportRecord struct {
	Pipeline  string         `json:"pipeline,omitzero"`
	FirstRun  string         `json:"first_run,omitzero"`
	SecondRun string         `json:"second_run,omitzero"`
	Report    *CachingReport `json:"report,omitzero"`
	Timestamp time.Time      `json:"timestamp,omitzero"`
}
