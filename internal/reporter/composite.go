package reporter

import "github.com/vidproof/vidproof/internal/report"

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) RunStarted(start RunStart) {
	for _, r := range c.reporters {
		r.RunStarted(start)
	}
}

func (c *CompositeReporter) AssetProbed(summary AssetSummary) {
	for _, r := range c.reporters {
		r.AssetProbed(summary)
	}
}

func (c *CompositeReporter) StageProgress(update StageProgress) {
	for _, r := range c.reporters {
		r.StageProgress(update)
	}
}

func (c *CompositeReporter) SamplingStarted(totalFrames int) {
	for _, r := range c.reporters {
		r.SamplingStarted(totalFrames)
	}
}

func (c *CompositeReporter) FrameSampled(update FrameUpdate) {
	for _, r := range c.reporters {
		r.FrameSampled(update)
	}
}

func (c *CompositeReporter) Verdict(rep *report.Report) {
	for _, r := range c.reporters {
		r.Verdict(rep)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) OperationComplete(message string) {
	for _, r := range c.reporters {
		r.OperationComplete(message)
	}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileProgress(context FileProgressContext) {
	for _, r := range c.reporters {
		r.FileProgress(context)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
