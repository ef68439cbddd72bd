// ABOUTME: MCP tool handler implementations for the stagewise server
// ABOUTME: Tool failures come back as error results, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/stagewise/internal/journal"
	"github.com/harper/stagewise/internal/llm"
	"github.com/harper/stagewise/internal/stage"
	"github.com/harper/stagewise/internal/survey"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	gen     llm.Generator
	catalog *stage.Catalog
	locale  string
	markers []string
	journal *journal.Journal // nil disables recording
}

// NewHandlers creates handlers; journal may be nil
func NewHandlers(gen llm.Generator, catalog *stage.Catalog, locale string, markers []string, j *journal.Journal) *Handlers {
	if catalog == nil {
		catalog = stage.DefaultCatalog()
	}
	return &Handlers{
		gen:     gen,
		catalog: catalog,
		locale:  locale,
		markers: markers,
		journal: j,
	}
}

type advanceResponse struct {
	NextStage string `json:"next_stage"`
	Advanced  bool   `json:"advanced"`
	Terminal  bool   `json:"terminal"`
	Reply     string `json:"reply,omitempty"`
	EntryID   string `json:"journal_entry,omitempty"`
}

// AdvanceStage handles the advance_stage tool
func (h *Handlers) AdvanceStage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := request.RequireString("current")
	if err != nil {
		return mcp.NewToolResultError("current argument is required and must be a string"), nil
	}
	dialogue := request.GetString("dialogue", "")

	stages := request.GetStringSlice("stages", nil)
	if len(stages) == 0 {
		name := request.GetString("sequence", "")
		if name == "" {
			return mcp.NewToolResultError("either stages or sequence must be provided"), nil
		}
		seq, err := h.catalog.Sequence(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		stages = seq
	}

	loc, err := stage.LookupLocale(request.GetString("locale", h.locale))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	evaluator := stage.NewLLMEvaluator(h.gen, loc, h.markers...)
	out, err := evaluator.Evaluate(ctx, stages, current, dialogue)
	switch {
	case errors.Is(err, stage.ErrInvalidStage):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, stage.ErrServiceUnavailable):
		return mcp.NewToolResultError(fmt.Sprintf("model unavailable: %v", err)), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := advanceResponse{
		NextStage: out.Next,
		Advanced:  out.Advanced,
		Terminal:  out.Terminal,
		Reply:     out.Reply,
	}
	if h.journal != nil {
		entry, err := h.journal.RecordEvaluation(stages, loc.Code, out)
		if err != nil {
			log.Printf("Warning: journal write failed: %v", err)
		} else {
			resp.EntryID = entry.ID
		}
	}

	return jsonResult(resp)
}

// ListStageSequences handles the list_stage_sequences tool
func (h *Handlers) ListStageSequences(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type sequenceInfo struct {
		Name   string   `json:"name"`
		Stages []string `json:"stages"`
	}

	sequences := make([]sequenceInfo, 0, len(h.catalog.Sequences))
	for _, name := range h.catalog.Names() {
		sequences = append(sequences, sequenceInfo{Name: name, Stages: h.catalog.Sequences[name]})
	}

	return jsonResult(map[string]interface{}{
		"count":     len(sequences),
		"sequences": sequences,
	})
}

// Recommend handles the recommend tool
func (h *Handlers) Recommend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("questionnaire", "snowboard")
	q, err := survey.Builtin(name, request.GetString("locale", h.locale))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	values, err := stringMap(request.GetArguments()["answers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answers, err := survey.AnswersFromMap(q, values)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := survey.NewAdvisor(h.gen).Recommend(ctx, q, answers)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if h.journal != nil {
		if _, err := h.journal.RecordRecommendation(res); err != nil {
			log.Printf("Warning: journal write failed: %v", err)
		}
	}

	data, err := res.JSON()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringMap(v interface{}) (map[string]string, error) {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("answers argument is required and must be an object")
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("answer %q must be a string", k)
		}
		out[k] = s
	}
	return out, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
