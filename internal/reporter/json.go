package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vidproof/vidproof/internal/report"
)

// JSONReporter outputs NDJSON events for machine consumers.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) RunStarted(start RunStart) {
	r.write(map[string]interface{}{
		"type":        "run_started",
		"asset_path":  start.AssetPath,
		"campaign":    start.Campaign,
		"brand":       start.Brand,
		"expectation": start.Expectation,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) AssetProbed(summary AssetSummary) {
	r.write(map[string]interface{}{
		"type":       "asset_probed",
		"file":       summary.File,
		"duration":   summary.Duration,
		"resolution": summary.Resolution,
		"codec":      summary.Codec,
		"size":       summary.Size,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) StageProgress(update StageProgress) {
	r.write(map[string]interface{}{
		"type":      "stage_progress",
		"stage":     update.Stage,
		"message":   update.Message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) SamplingStarted(totalFrames int) {
	r.write(map[string]interface{}{
		"type":         "sampling_started",
		"total_frames": totalFrames,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) FrameSampled(update FrameUpdate) {
	r.write(map[string]interface{}{
		"type":      "frame_sampled",
		"index":     update.Index,
		"total":     update.Total,
		"offset":    update.Timestamp,
		"skipped":   update.Skipped,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Verdict(rep *report.Report) {
	r.write(map[string]interface{}{
		"type":      "verdict",
		"report":    rep,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write(map[string]interface{}{
		"type":      "operation_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]interface{}{
		"type":         "file_progress",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	results := make([]map[string]interface{}, len(summary.FileResults))
	for i, res := range summary.FileResults {
		results[i] = map[string]interface{}{
			"filename": res.Filename,
			"overall":  res.Overall,
			"passed":   res.Passed,
			"error":    res.Err,
		}
	}

	r.write(map[string]interface{}{
		"type":                   "batch_complete",
		"total_files":            summary.TotalFiles,
		"passed_count":           summary.PassedCount,
		"failed_count":           summary.FailedCount,
		"errored_count":          summary.ErroredCount,
		"total_duration_seconds": int64(summary.TotalDuration.Seconds()),
		"file_results":           results,
		"timestamp":              r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]interface{}{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
