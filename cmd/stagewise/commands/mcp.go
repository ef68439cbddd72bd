// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to use stagewise via stdio
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harper/stagewise/internal/journal"
	"github.com/harper/stagewise/internal/mcp"
	"github.com/harper/stagewise/internal/stage"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs stagewise as an MCP (Model Context Protocol) server, giving
LLM agents the advance_stage, list_stage_sequences and recommend
tools over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  stagewise mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "stagewise": {
  #       "command": "stagewise",
  #       "args": ["mcp", "--journal"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	gen, err := newGenerator(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initializing model client: %w", err)
	}

	catalog := stage.DefaultCatalog()
	if cfg.CatalogPath != "" {
		if catalog, err = stage.LoadCatalog(cfg.CatalogPath); err != nil {
			return err
		}
	}

	var j *journal.Journal
	if useJournal {
		jj, closeFn, err := openJournal(cfg)
		if err != nil {
			log.Printf("Warning: journal disabled: %v", err)
		} else {
			j = jj
			defer func() {
				if err := closeFn(); err != nil {
					log.Printf("Warning: Error closing journal: %v", err)
				}
			}()
		}
	}

	handlers := mcp.NewHandlers(gen, catalog, effectiveLocale(cfg), cfg.Markers, j)
	server := mcp.NewServer(handlers, resolveVersion().Version)

	if !quiet {
		log.Println("stagewise MCP server starting on stdio...")
	}
	if err := mcp.ServeStdio(cmd.Context(), server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	if !quiet {
		log.Println("Shutdown complete")
	}
	return nil
}
