// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// RunStart describes the asset about to be validated.
type RunStart struct {
	AssetPath   string
	Campaign    string
	Brand       string
	Expectation string
}

// AssetSummary describes the probed asset before sampling.
type AssetSummary struct {
	File       string
	Duration   string
	Resolution string
	Codec      string
	Size       string
}

// StageProgress represents a generic stage update.
type StageProgress struct {
	Stage   string
	Message string
}

// FrameUpdate reports one sampled frame within a run.
type FrameUpdate struct {
	Index     int
	Total     int
	Timestamp float64
	Skipped   bool
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
}

// FileVerdict is one file's outcome within a batch.
type FileVerdict struct {
	Filename string
	Overall  float64
	Passed   bool
	Err      string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	TotalFiles    int
	PassedCount   int
	FailedCount   int
	ErroredCount  int
	TotalDuration time.Duration
	FileResults   []FileVerdict
}
