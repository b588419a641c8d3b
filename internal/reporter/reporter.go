package reporter

import "github.com/vidproof/vidproof/internal/report"

// Reporter defines the interface for progress reporting.
type Reporter interface {
	RunStarted(start RunStart)
	AssetProbed(summary AssetSummary)
	StageProgress(update StageProgress)
	SamplingStarted(totalFrames int)
	FrameSampled(update FrameUpdate)
	Verdict(r *report.Report)
	Warning(message string)
	Error(err ReporterError)
	OperationComplete(message string)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) RunStarted(RunStart)             {}
func (NullReporter) AssetProbed(AssetSummary)        {}
func (NullReporter) StageProgress(StageProgress)     {}
func (NullReporter) SamplingStarted(int)             {}
func (NullReporter) FrameSampled(FrameUpdate)        {}
func (NullReporter) Verdict(*report.Report)          {}
func (NullReporter) Warning(string)                  {}
func (NullReporter) Error(ReporterError)             {}
func (NullReporter) OperationComplete(string)        {}
func (NullReporter) BatchStarted(BatchStartInfo)     {}
func (NullReporter) FileProgress(FileProgressContext) {}
func (NullReporter) BatchComplete(BatchSummary)      {}
func (NullReporter) Verbose(string)                  {}
