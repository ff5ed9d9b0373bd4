package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var namespaceCmd = &cobra.Command{
	Use:   "namespace",
	Short: "Manage index namespaces",
}

var namespaceDeleteCmd = &cobra.Command{
	Use:   "delete [namespace]",
	Short: "Delete every vector in a namespace",
	Long: `Delete every vector stored in a namespace of the vector index, along
with its indexing checkpoint. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: runNamespaceDelete,
}

func init() {
	namespaceDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	namespaceCmd.AddCommand(namespaceDeleteCmd)
	rootCmd.AddCommand(namespaceCmd)
}

func runNamespaceDelete(cmd *cobra.Command, args []string) error {
	namespace := strings.TrimSpace(args[0])
	if namespace == "" {
		return errors.New("namespace cannot be empty")
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirm(cmd, fmt.Sprintf("Delete all vectors in namespace %q? [y/N]: ", namespace)) {
		cmd.Println("Aborted.")
		return nil
	}

	svc, release, err := services(cmd, BuildOptions{})
	if err != nil {
		return err
	}
	defer release()
	if svc.Indexer == nil {
		return errors.New("index service not configured")
	}

	if err := svc.Indexer.DeleteNamespace(cmd.Context(), namespace); err != nil {
		return fmt.Errorf("delete namespace: %w", err)
	}
	cmd.Printf("Deleted namespace %q\n", namespace)
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	cmd.Print(prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
