package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat",
	Long: `Launch an interactive terminal chat for asking questions about LPDP
disbursement. Every answer lists the guide pages it was drawn from.

Controls:
  Enter       - Ask
  PgUp/PgDn   - Scroll the transcript
  Ctrl+L      - Clear the transcript
  F1          - Toggle help
  Esc/Ctrl+C  - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntP("top-k", "k", 0, "number of passages to retrieve (0 = configured default)")
	rootCmd.AddCommand(chatCmd)
}

// runProgram is replaced in tests.
var runProgram = func(model tea.Model) error {
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runChat(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	topK, _ := cmd.Flags().GetInt("top-k")

	svc, release, err := services(cmd, BuildOptions{})
	if err != nil {
		return err
	}
	defer release()

	app, err := tui.NewApp(&tui.Ports{Retriever: svc.Retriever})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	app.WithContext(cmd.Context()).WithOptions(driving.RetrieveOptions{TopK: topK})

	if err := runProgram(app); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
