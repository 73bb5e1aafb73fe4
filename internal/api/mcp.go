package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/solheim/briefd/internal/brand"
	"github.com/solheim/briefd/internal/draft"
	"github.com/solheim/briefd/internal/infer"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Drafts    *draft.Service
	Audiences *brand.Manager
}

// NewMCPServer creates an MCP server with all briefd tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"briefd",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("briefd — turns free-form chat about creative work into a structured brief with confidence-scored fields."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("infer_brief",
			mcp.WithDescription("Run a one-shot inference over a message and return the structured brief fields with confidences. No draft state is involved."),
			mcp.WithString("message", mcp.Description("The user's message describing the creative task"), mcp.Required()),
		),
		mcpInferBrief(deps),
	)

	s.AddTool(
		mcp.NewTool("draft_message",
			mcp.WithDescription("Send a message to a draft conversation, merging the inferred fields into its live brief. Creates the draft when draft_id is omitted."),
			mcp.WithString("message", mcp.Description("The user's message"), mcp.Required()),
			mcp.WithString("draft_id", mcp.Description("Existing draft to continue; omit to start a new one")),
		),
		mcpDraftMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("get_brief",
			mcp.WithDescription("Fetch a draft's current brief, summary, and status."),
			mcp.WithString("draft_id", mcp.Description("Draft ID"), mcp.Required()),
		),
		mcpGetBrief(deps),
	)

	s.AddTool(
		mcp.NewTool("list_audiences",
			mcp.WithDescription("List the brand's audience profiles."),
		),
		mcpListAudiences(deps),
	)

	s.AddTool(
		mcp.NewTool("add_audience",
			mcp.WithDescription("Add or update a brand audience profile used during audience matching."),
			mcp.WithString("name", mcp.Description("Audience display name"), mcp.Required()),
			mcp.WithString("id", mcp.Description("Profile ID; omit to create a new profile")),
			mcp.WithArray("job_titles", mcp.Description("Job titles this audience holds")),
			mcp.WithArray("industries", mcp.Description("Industries this audience works in")),
			mcp.WithArray("psychographics", mcp.Description("Traits and motivations")),
			mcp.WithString("demographics", mcp.Description("Free-form demographics note")),
			mcp.WithBoolean("is_primary", mcp.Description("Marks the brand's default audience")),
		),
		mcpAddAudience(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"briefs://recent",
			"Recent Drafts",
			mcp.WithResourceDescription("Last 10 drafts with their summaries"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpInferBrief(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		audiences, err := deps.Audiences.Audiences()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to load audiences: %v", err)), nil
		}

		res := infer.Infer(infer.Request{Message: message, Audiences: audiences})
		out := InferResponse{
			Result:  res,
			Summary: infer.Summarize(res),
			Question: infer.NextQuestion(infer.QuestionContext{
				TaskType: res.TaskType,
				Platform: res.Platform,
				Intent:   res.Intent,
			}, nil),
		}

		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpDraftMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		draftID := req.GetString("draft_id", "")
		if draftID == "" {
			d, err := deps.Drafts.Create()
			if err != nil {
				return mcpError(fmt.Sprintf("failed to create draft: %v", err)), nil
			}
			draftID = d.ID
		}

		turn, err := deps.Drafts.HandleMessage(draftID, message)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to handle message: %v", err)), nil
		}

		b, err := json.Marshal(map[string]any{
			"draft_id": turn.DraftID,
			"summary":  turn.Summary,
			"brief":    turn.Brief,
			"question": turn.Question,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal turn: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetBrief(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		draftID, err := req.RequireString("draft_id")
		if err != nil {
			return mcpError("draft_id is required"), nil
		}

		d, liveBrief, err := deps.Drafts.Get(draftID)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get draft: %v", err)), nil
		}

		b, err := json.Marshal(map[string]any{
			"draft_id":   d.ID,
			"status":     d.Status,
			"summary":    d.Summary,
			"brief":      liveBrief,
			"updated_at": d.UpdatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal draft: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListAudiences(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profiles, err := deps.Audiences.Audiences()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list audiences: %v", err)), nil
		}
		if len(profiles) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(profiles)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal audiences: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpAddAudience(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}

		p := brand.AudienceProfile{
			ID:             req.GetString("id", ""),
			Name:           name,
			JobTitles:      req.GetStringSlice("job_titles", nil),
			Industries:     req.GetStringSlice("industries", nil),
			Psychographics: req.GetStringSlice("psychographics", nil),
			Demographics:   req.GetString("demographics", ""),
			IsPrimary:      req.GetBool("is_primary", false),
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}

		if err := deps.Audiences.Save(p); err != nil {
			return mcpError(fmt.Sprintf("failed to save audience: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Saved audience %s (%s)", p.Name, p.ID)), nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		drafts, err := deps.Drafts.List(10)
		if err != nil {
			return nil, fmt.Errorf("failed to list drafts: %w", err)
		}

		type draftSummary struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			Summary   string `json:"summary"`
			UpdatedAt string `json:"updated_at"`
		}

		summaries := make([]draftSummary, len(drafts))
		for i, d := range drafts {
			summary := d.Summary
			if utf8.RuneCountInString(summary) > 200 {
				runes := []rune(summary)
				summary = string(runes[:200]) + "..."
			}
			summaries[i] = draftSummary{
				ID:        d.ID,
				Status:    d.Status,
				Summary:   summary,
				UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal drafts: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
