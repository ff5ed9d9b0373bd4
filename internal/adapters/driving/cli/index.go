package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

var indexCmd = &cobra.Command{
	Use:   "index [pdf]",
	Short: "Index the disbursement guide PDF",
	Long: `Load the disbursement guide PDF, split it into overlapping chunks,
embed them and upload the vectors to the configured index.

Without an argument the document.path setting is used, then
docs/panduan-pencairan-awardee.pdf, then ./panduan-pencairan-awardee.pdf.

Examples:
  lpdp-faq index
  lpdp-faq index ./panduan.pdf --namespace v2 --chunk-size 800
  lpdp-faq index --resume
  lpdp-faq index --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("namespace", "", "index namespace (default from config)")
	indexCmd.Flags().Int("chunk-size", domain.DefaultChunkSize, "maximum characters per chunk")
	indexCmd.Flags().Int("chunk-overlap", domain.DefaultChunkOverlap, "characters shared by consecutive chunks")
	indexCmd.Flags().Bool("resume", false, "skip batches committed by an interrupted run")
	indexCmd.Flags().BoolP("watch", "w", false, "re-index whenever the PDF changes")
	rootCmd.AddCommand(indexCmd)
}

// documentCandidates are tried in order when no path is given.
var documentCandidates = []string{
	filepath.Join("docs", domain.DefaultDocumentName),
	domain.DefaultDocumentName,
}

// resolveDocument returns the PDF to index: arg, then configured, then the
// first existing candidate.
func resolveDocument(arg, configured string) (string, error) {
	if arg != "" {
		return existing(arg)
	}
	if configured != "" {
		return existing(configured)
	}
	for _, candidate := range documentCandidates {
		if path, err := existing(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: PDF file not found in %v", domain.ErrNotFound, documentCandidates)
}

func existing(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: PDF file not found: %s", domain.ErrNotFound, path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	return path, nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	namespace, _ := flags.GetString("namespace")
	resume, _ := flags.GetBool("resume")
	watch, _ := flags.GetBool("watch")
	chunkSize, _ := flags.GetInt("chunk-size")
	chunkOverlap, _ := flags.GetInt("chunk-overlap")

	override := func(s *domain.Settings) {
		if flags.Changed("chunk-size") {
			s.Chunking.Size = chunkSize
		}
		if flags.Changed("chunk-overlap") {
			s.Chunking.Overlap = chunkOverlap
		}
	}

	svc, release, err := services(cmd, BuildOptions{Override: override})
	if err != nil {
		return err
	}
	defer release()
	if svc.Indexer == nil {
		return errors.New("index service not configured")
	}

	var arg string
	if len(args) == 1 {
		arg = args[0]
	}
	path, err := resolveDocument(arg, svc.Config.Document.Path)
	if err != nil {
		return err
	}

	progress := newIndexProgress(cmd.ErrOrStderr(), stderrIsTerminal())
	run := func(ctx context.Context, resume bool) error {
		defer progress.Finish()
		report, err := svc.Indexer.Index(ctx, path, driving.IndexOptions{
			Namespace: namespace,
			Resume:    resume,
			Progress:  progress.Update,
		})
		if err != nil {
			return fmt.Errorf("index %s: %w", path, err)
		}
		printReport(cmd, report)
		return nil
	}

	if err := run(cmd.Context(), resume); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", path)
	// A changed document never matches the old checkpoint, so resuming only
	// helps after an interrupted re-index.
	return watchDocument(cmd.Context(), path, func(ctx context.Context) error {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s changed, re-indexing\n", path)
		return run(ctx, true)
	})
}

func printReport(cmd *cobra.Command, report domain.IndexReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %d pages, created %d chunks\n", report.Pages, report.Chunks)
	if report.SkippedBatches > 0 {
		fmt.Fprintf(out, "Resumed after %d committed batches\n", report.SkippedBatches)
	}
	fmt.Fprintf(out, "Uploaded %d vectors in %d batches\n", report.Vectors, report.Batches)
	fmt.Fprintf(out, "Total vectors in index: %d\n", report.Stats.TotalVectorCount)
}
