package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// indexProgress turns indexer stage updates into terminal output. On a
// terminal embed and upsert share one bar over batches; otherwise each step
// is printed as a line.
type indexProgress struct {
	out         io.Writer
	interactive bool
	bar         *progressbar.ProgressBar
}

func newIndexProgress(out io.Writer, interactive bool) *indexProgress {
	return &indexProgress{out: out, interactive: interactive}
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Update implements driving.ProgressFunc.
func (p *indexProgress) Update(stage driving.IndexStage, done, total int) {
	switch stage {
	case driving.StageLoad:
		if done == 0 {
			fmt.Fprintln(p.out, "Loading PDF...")
		}
	case driving.StageChunk:
		if done == 0 {
			fmt.Fprintf(p.out, "Chunking %d pages...\n", total)
		}
	case driving.StageEmbed:
		if p.interactive {
			p.ensureBar(total)
			p.bar.Describe(fmt.Sprintf("embedding %d/%d", done, total))
			return
		}
		fmt.Fprintf(p.out, "Embedded batch %d/%d\n", done, total)
	case driving.StageUpsert:
		if p.interactive {
			p.ensureBar(total)
			p.bar.Describe("uploading")
			_ = p.bar.Set(done)
			return
		}
		fmt.Fprintf(p.out, "Uploaded batch %d/%d\n", done, total)
	}
}

func (p *indexProgress) ensureBar(total int) {
	if p.bar != nil {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Finish clears the bar so it can be reused by a later run.
func (p *indexProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}
