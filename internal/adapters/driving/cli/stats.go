package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "print statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	svc, release, err := services(cmd, BuildOptions{})
	if err != nil {
		return err
	}
	defer release()
	if svc.Indexer == nil {
		return errors.New("index service not configured")
	}

	stats, err := svc.Indexer.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	if asJSON {
		return writeJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Index:          %s (%s)\n", svc.Config.VectorIndex.IndexName, svc.Config.VectorIndex.Provider)
	fmt.Fprintf(out, "Dimension:      %d\n", stats.Dimension)
	fmt.Fprintf(out, "Total vectors:  %d\n", stats.TotalVectorCount)
	if len(stats.Namespaces) == 0 {
		return nil
	}

	names := make([]string, 0, len(stats.Namespaces))
	for ns := range stats.Namespaces {
		names = append(names, ns)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "Namespaces:")
	for _, ns := range names {
		label := ns
		if label == "" {
			label = "(default)"
		}
		fmt.Fprintf(out, "  %-20s %d\n", label, stats.Namespaces[ns])
	}
	return nil
}
