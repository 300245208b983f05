// Command n8n-mcp-lite is the stdio MCP server that mediates between
// an AI assistant and a remote n8n-compatible workflow engine.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/LunkiBR/n8n-mcp-lite/internal/approval"
	"github.com/LunkiBR/n8n-mcp-lite/internal/config"
	"github.com/LunkiBR/n8n-mcp-lite/internal/engineapi"
	"github.com/LunkiBR/n8n-mcp-lite/internal/knowledge"
	"github.com/LunkiBR/n8n-mcp-lite/internal/logging"
	"github.com/LunkiBR/n8n-mcp-lite/internal/mcpserver"
	"github.com/LunkiBR/n8n-mcp-lite/internal/snapshot"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "n8n-mcp-lite",
	Short:   "Mediating MCP server between an AI assistant and a workflow engine",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stdio MCP dispatch loop (default action)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server name and version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("n8n-mcp-lite %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	// Starting the binary with no subcommand serves, since that is the
	// only way this process is meaningfully invoked (by an MCP client
	// launching it over stdio).
	rootCmd.RunE = serveCmd.RunE
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error("fatal startup error", "error", err)
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logging.Init(logging.Config{Debug: cfg.LogDebug, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logging.Sync()

	idx, err := knowledge.Load()
	if err != nil {
		return fmt.Errorf("loading knowledge base: %w", err)
	}

	engine := engineapi.New(cfg.EngineBaseURL, cfg.EngineAPIKey, time.Duration(cfg.TimeoutMS)*time.Millisecond)
	snapshots := snapshot.New(cfg.SnapshotRoot)
	audit := approval.NewAuditLog(cfg.SnapshotRoot)
	gate := approval.New(cfg.ApprovalEnabled)

	logging.Info("n8n-mcp-lite starting",
		"engineBaseURL", cfg.EngineBaseURL,
		"snapshotRoot", cfg.SnapshotRoot,
		"approvalEnabled", cfg.ApprovalEnabled,
	)

	srv := mcpserver.New(engine, snapshots, gate, audit, idx)
	return srv.StartStdio(context.Background())
}
