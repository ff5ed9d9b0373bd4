package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the LPDP tools:
tanya_pencairan_lpdp, cari_komponen_dana, cek_batas_waktu, info_dana_bulanan
and cari_dokumen_persyaratan.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, for example to test with MCP Inspector.

Examples:
  # Stdio mode (default)
  lpdp-faq mcp serve

  # HTTP mode
  lpdp-faq mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "lpdp-pencairan-faq": {
        "command": "/path/to/lpdp-faq",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	svc, release, err := services(cmd, BuildOptions{})
	if err != nil {
		return err
	}
	defer release()

	server, err := mcp.NewServer(&mcp.Ports{
		Tools: svc.Tools,
		Index: svc.Indexer,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		// stdout is free in HTTP mode.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
