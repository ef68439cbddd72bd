// ABOUTME: MCP tool definitions and registration for the stagewise server
// ABOUTME: Exposes stage advancement, the stage catalog and questionnaire recommendations
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, handlers *Handlers) {
	// 1. advance_stage - decide whether a dialogue moves to the next stage
	server.AddTool(mcp.Tool{
		Name:        "advance_stage",
		Description: "Decide whether a sales dialogue can move from its current stage to the next one. Returns the next stage, the unchanged current stage, or a terminal marker when the current stage is the last.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"stages": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Ordered stage names. Omit to use the sequence argument instead.",
				},
				"sequence": map[string]interface{}{
					"type":        "string",
					"description": "Name of a catalog sequence (see list_stage_sequences)",
				},
				"current": map[string]interface{}{
					"type":        "string",
					"description": "Current stage name; must be one of the stages",
				},
				"dialogue": map[string]interface{}{
					"type":        "string",
					"description": "Conversation transcript so far",
				},
				"locale": map[string]interface{}{
					"type":        "string",
					"description": "Prompt language (en or ru). Defaults to the server locale.",
				},
			},
			Required: []string{"current", "dialogue"},
		},
	}, handlers.AdvanceStage)

	// 2. list_stage_sequences - show the catalog
	server.AddTool(mcp.Tool{
		Name:        "list_stage_sequences",
		Description: "List the named stage sequences known to the server.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListStageSequences)

	// 3. recommend - run a questionnaire with answers supplied by the agent
	server.AddTool(mcp.Tool{
		Name:        "recommend",
		Description: "Get a recommendation from a built-in questionnaire. Supply the answers keyed by question key; missing answers are sent as blank.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"questionnaire": map[string]interface{}{
					"type":        "string",
					"description": "Questionnaire name (default: snowboard)",
					"default":     "snowboard",
				},
				"answers": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": map[string]interface{}{"type": "string"},
					"description":          "Answers keyed by question key, e.g. name, experience, goal, additional_info",
				},
				"locale": map[string]interface{}{
					"type":        "string",
					"description": "Questionnaire language (en or ru)",
				},
			},
			Required: []string{"answers"},
		},
	}, handlers.Recommend)
}
