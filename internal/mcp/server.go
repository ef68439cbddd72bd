// ABOUTME: MCP server construction and stdio serving
// ABOUTME: Shared by the mcp subcommand and the standalone server binary
package mcp

import (
	"context"
	"errors"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName is advertised to MCP clients
const ServerName = "stagewise"

// NewServer creates an MCP server with all tools registered
func NewServer(handlers *Handlers, version string) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(
		ServerName,
		version,
		mcpserver.WithToolCapabilities(false),
	)
	RegisterTools(server, handlers)
	return server
}

// ServeStdio serves on stdin/stdout until ctx is cancelled or input ends
func ServeStdio(ctx context.Context, server *mcpserver.MCPServer) error {
	err := mcpserver.NewStdioServer(server).Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
