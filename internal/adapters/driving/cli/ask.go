package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about LPDP disbursement",
	Long: `Retrieve the most relevant passages of the disbursement guide and
generate an answer from them, followed by the pages it was drawn from.

With --summary the retrieved passages are condensed instead of answered,
which is useful for reviewing what the guide says about a topic.

Examples:
  lpdp-faq ask "Berapa dana hidup bulanan di Jepang?"
  lpdp-faq ask "Kapan batas pengajuan dana SPP?" --top-k 8 --json
  lpdp-faq ask "dana kedatangan" --summary --max-length 800`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntP("top-k", "k", 0, "number of passages to retrieve (0 = configured default)")
	askCmd.Flags().String("namespace", "", "index namespace to search")
	askCmd.Flags().Bool("json", false, "print the answer and sources as JSON")
	askCmd.Flags().Bool("summary", false, "summarise the retrieved passages instead of answering")
	askCmd.Flags().Int("max-length", 0, "maximum summary length in characters (0 = default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(args[0])
	if question == "" {
		return errors.New("question cannot be empty")
	}

	topK, _ := cmd.Flags().GetInt("top-k")
	namespace, _ := cmd.Flags().GetString("namespace")
	asJSON, _ := cmd.Flags().GetBool("json")
	summary, _ := cmd.Flags().GetBool("summary")
	maxLength, _ := cmd.Flags().GetInt("max-length")
	if topK < 0 {
		return fmt.Errorf("--top-k must not be negative, got %d", topK)
	}

	svc, release, err := services(cmd, BuildOptions{})
	if err != nil {
		return err
	}
	defer release()
	if svc.Retriever == nil {
		return errors.New("retriever not configured")
	}

	opts := driving.RetrieveOptions{TopK: topK, Namespace: namespace}
	var result domain.QueryResult
	if summary {
		result, err = svc.Retriever.Summarise(cmd.Context(), question, maxLength, opts)
	} else {
		result, err = svc.Retriever.Query(cmd.Context(), question, opts)
	}
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	if asJSON {
		return writeJSON(cmd, result)
	}
	cmd.Println(renderAnswer(styles.DefaultStyles(), result))
	return nil
}

func renderAnswer(s *styles.Styles, result domain.QueryResult) string {
	var b strings.Builder
	b.WriteString(s.Answer.Render(result.Answer))
	if lines := chat.SourceLines(result.Sources); len(lines) > 0 {
		b.WriteString("\n\n")
		b.WriteString(s.Title.Render("Sumber:"))
		b.WriteString("\n")
		b.WriteString(s.Source.Render(strings.Join(lines, "\n")))
	}
	return b.String()
}

func writeJSON(cmd *cobra.Command, v any) error {
	// Context is large and only useful when debugging.
	if r, ok := v.(domain.QueryResult); ok {
		r.Context = ""
		if r.Sources == nil {
			r.Sources = []domain.Source{}
		}
		v = r
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
