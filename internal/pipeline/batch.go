package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/vidproof/vidproof/internal/errors"
	"github.com/vidproof/vidproof/internal/report"
	"github.com/vidproof/vidproof/internal/reporter"
	"github.com/vidproof/vidproof/internal/util"
	"github.com/vidproof/vidproof/internal/vision"
	"github.com/vidproof/vidproof/internal/worker"
)

// FileOutcome is one file's result within a batch run.
type FileOutcome struct {
	AssetPath string
	Report    *report.Report
	Err       error
}

// ValidateBatch validates every asset with bounded parallelism and returns
// per-file outcomes in input order. A single failing file does not stop the
// batch; cancellation does.
func (p *Pipeline) ValidateBatch(ctx context.Context, assetPaths []string, exp vision.Expectation) []FileOutcome {
	batchStart := time.Now()

	if len(assetPaths) > 1 {
		fileNames := make([]string, len(assetPaths))
		for i, path := range assetPaths {
			fileNames[i] = util.GetFilename(path)
		}
		p.rep.BatchStarted(reporter.BatchStartInfo{
			TotalFiles: len(assetPaths),
			FileList:   fileNames,
		})
	}

	results := worker.Run(ctx, p.cfg.Workers, assetPaths,
		func(ctx context.Context, index int, assetPath string) (*report.Report, error) {
			if len(assetPaths) > 1 {
				p.rep.FileProgress(reporter.FileProgressContext{
					CurrentFile: index + 1,
					TotalFiles:  len(assetPaths),
				})
			}
			return p.Validate(ctx, assetPath, exp)
		})

	outcomes := make([]FileOutcome, len(results))
	for i, res := range results {
		outcomes[i] = FileOutcome{
			AssetPath: assetPaths[i],
			Report:    res.Value,
			Err:       res.Err,
		}
		if res.Err != nil && !errors.IsCancelled(res.Err) {
			p.rep.Error(reporter.ReporterError{
				Title:      "Validation Error",
				Message:    fmt.Sprintf("Could not validate %s: %v", util.GetFilename(assetPaths[i]), res.Err),
				Context:    fmt.Sprintf("File: %s", assetPaths[i]),
				Suggestion: errors.SuggestionFor(res.Err),
			})
		}
	}

	p.summarizeBatch(outcomes, len(assetPaths), time.Since(batchStart))

	return outcomes
}

func (p *Pipeline) summarizeBatch(outcomes []FileOutcome, totalFiles int, elapsed time.Duration) {
	if totalFiles == 1 {
		if len(outcomes) == 1 && outcomes[0].Err == nil {
			verdict := "failed validation"
			if outcomes[0].Report.Passed {
				verdict = "passed validation"
			}
			p.rep.OperationComplete(fmt.Sprintf("%s %s", outcomes[0].Report.AssetName, verdict))
		}
		return
	}

	var passed, failed, errored int
	fileResults := make([]reporter.FileVerdict, 0, len(outcomes))
	for _, outcome := range outcomes {
		fv := reporter.FileVerdict{Filename: util.GetFilename(outcome.AssetPath)}
		switch {
		case outcome.Err != nil:
			errored++
			fv.Err = outcome.Err.Error()
		case outcome.Report.Passed:
			passed++
			fv.Passed = true
			fv.Overall = outcome.Report.Overall
		default:
			failed++
			fv.Overall = outcome.Report.Overall
		}
		fileResults = append(fileResults, fv)
	}

	p.rep.BatchComplete(reporter.BatchSummary{
		TotalFiles:    totalFiles,
		PassedCount:   passed,
		FailedCount:   failed,
		ErroredCount:  errored,
		TotalDuration: elapsed,
		FileResults:   fileResults,
	})
}
