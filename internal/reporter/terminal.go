package reporter

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/vidproof/vidproof/internal/config"
	"github.com/vidproof/vidproof/internal/report"
	"github.com/vidproof/vidproof/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu        sync.Mutex
	progress  *progressbar.ProgressBar
	lastStage string
	cyan      *color.Color
	green     *color.Color
	yellow    *color.Color
	red       *color.Color
	magenta   *color.Color
	bold      *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

func (r *TerminalReporter) RunStarted(start RunStart) {
	fmt.Println()
	_, _ = r.cyan.Println("VALIDATION RUN")
	r.printLabel(13, "Asset:", start.AssetPath)
	if start.Campaign != "" {
		r.printLabel(13, "Campaign:", start.Campaign)
	}
	if start.Brand != "" {
		r.printLabel(13, "Brand:", start.Brand)
	}
	if start.Expectation != "" {
		r.printLabel(13, "Expectation:", start.Expectation)
	}
}

func (r *TerminalReporter) AssetProbed(summary AssetSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("ASSET")
	r.printLabel(12, "File:", summary.File)
	r.printLabel(12, "Duration:", summary.Duration)
	r.printLabel(12, "Resolution:", summary.Resolution)
	if summary.Codec != "" {
		r.printLabel(12, "Codec:", summary.Codec)
	}
	if summary.Size != "" {
		r.printLabel(12, "Size:", summary.Size)
	}
}

func (r *TerminalReporter) StageProgress(update StageProgress) {
	r.mu.Lock()
	if r.lastStage != update.Stage {
		r.mu.Unlock()
		fmt.Println()
		_, _ = r.cyan.Println(strings.ToUpper(update.Stage))
		r.mu.Lock()
		r.lastStage = update.Stage
	}
	r.mu.Unlock()
	fmt.Printf("  %s %s\n", r.magenta.Sprint("›"), update.Message)
}

func (r *TerminalReporter) SamplingStarted(totalFrames int) {
	r.finishProgress()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions(
		totalFrames,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Sampling [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) FrameSampled(update FrameUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}
	_ = r.progress.Add(1)
	desc := fmt.Sprintf("frame %d/%d at %s", update.Index, update.Total, util.FormatTimestamp(update.Timestamp))
	if update.Skipped {
		desc += " (skipped)"
	}
	r.progress.Describe(desc)
}

func (r *TerminalReporter) Verdict(rep *report.Report) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("VERDICT")

	if rep.Passed {
		fmt.Printf("  %s %s\n", r.green.Add(color.Bold).Sprint("PASSED"), r.bold.Sprintf("overall %.2f/10", rep.Overall))
	} else {
		fmt.Printf("  %s %s\n", r.red.Sprint("FAILED"), r.bold.Sprintf("overall %.2f/10", rep.Overall))
	}

	rows := rep.DimensionRows(config.PassThreshold)

	// Find the longest dimension name for alignment
	maxLen := 0
	for _, row := range rows {
		if len(row.Name) > maxLen {
			maxLen = len(row.Name)
		}
	}

	for _, row := range rows {
		var status string
		if row.Passed {
			status = r.green.Sprint("✓")
		} else {
			status = r.red.Sprint("✗")
		}
		paddedName := fmt.Sprintf("%-*s", maxLen, row.Name)
		fmt.Printf("  - %s: %s %.1f\n", paddedName, status, row.Score)
	}

	if rep.VerdictDisagrees() {
		_, _ = r.yellow.Printf("  Service claimed passed=%t; local scoring says passed=%t\n",
			rep.ServicePassed, rep.Passed)
	}

	if rep.Summary != "" {
		fmt.Println()
		r.printLabel(9, "Summary:", rep.Summary)
	}
	r.printStringList("Issues", rep.Issues, r.red)
	r.printStringList("Strengths", rep.Strengths, r.green)
	r.printStringList("Next", rep.Recommendations, r.magenta)
}

func (r *TerminalReporter) printStringList(title string, items []string, c *color.Color) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("  %s\n", r.bold.Sprint(title+":"))
	for _, item := range items {
		fmt.Printf("    %s %s\n", c.Sprint("•"), item)
	}
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	fmt.Printf("  Validating %d files\n", info.TotalFiles)
	for i, name := range info.FileList {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	fmt.Printf("\nFile %s of %d\n",
		r.bold.Sprint(context.CurrentFile),
		context.TotalFiles)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH SUMMARY")
	fmt.Printf("  %s\n", r.bold.Sprintf("%d of %d passed", summary.PassedCount, summary.TotalFiles))
	if summary.ErroredCount > 0 {
		fmt.Printf("  Errors: %s\n", r.red.Sprint(summary.ErroredCount))
	}
	fmt.Printf("  Time: %s\n", util.FormatDuration(summary.TotalDuration.Seconds()))

	for _, result := range summary.FileResults {
		switch {
		case result.Err != "":
			fmt.Printf("  - %s: %s (%s)\n", result.Filename, r.red.Sprint("error"), result.Err)
		case result.Passed:
			fmt.Printf("  - %s: %s (%.2f/10)\n", result.Filename, r.green.Sprint("passed"), result.Overall)
		default:
			fmt.Printf("  - %s: %s (%.2f/10)\n", result.Filename, r.red.Sprint("failed"), result.Overall)
		}
	}
}

func (r *TerminalReporter) Verbose(message string) {
	fmt.Printf("  %s\n", color.New(color.Faint).Sprint(message))
}
