package mcpserver

import (
	"context"

	"nexus-gm/internal/gm"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPlayTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"take_action",
			mcp.WithDescription("Pick a numbered choice or describe any action; returns the next scene."),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Player id")),
			mcp.WithString("action", mcp.Required(), mcp.Description("Choice number or free-form action")),
			mcp.WithString("session_id", mcp.Description("Session id; defaults to the player's active session")),
			mcp.WithString("channel_id", mcp.Description("Channel used to find the active session")),
		),
		s.handleTakeAction,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"make_roll",
			mcp.WithDescription("Roll a Cypher System task against a stat pool."),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Player id")),
			mcp.WithString("pool", mcp.Required(), mcp.Description("might|speed|intellect")),
			mcp.WithNumber("difficulty", mcp.Required(), mcp.Description("Task difficulty 0-10")),
			mcp.WithNumber("effort", mcp.Description("Effort levels 0-3")),
			mcp.WithNumber("skill", mcp.Description("Skill levels 0-2")),
			mcp.WithNumber("assets", mcp.Description("Assets; at most two count")),
			mcp.WithString("skill_name", mcp.Description("Use the character's level in this skill")),
			mcp.WithString("session_id", mcp.Description("Session id; defaults to the player's active session")),
			mcp.WithString("channel_id", mcp.Description("Channel used to find the active session")),
		),
		s.handleMakeRoll,
	)
}

func (s *Server) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	action, err := request.RequireString("action")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	info, errResp := s.resolveSession(request, userID)
	if errResp != nil {
		return errResp, nil
	}
	res, err := s.engine.ApplyAction(ctx, info.ID, userID, action)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleMakeRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	pool, err := request.RequireString("pool")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	difficulty := request.GetInt("difficulty", -1)
	if difficulty < 0 {
		return toolError("invalid_request", "difficulty is required"), nil
	}
	info, errResp := s.resolveSession(request, userID)
	if errResp != nil {
		return errResp, nil
	}
	out, err := s.engine.ResolveRoll(ctx, info.ID, userID, gm.RollInput{
		Pool:       pool,
		Difficulty: difficulty,
		Effort:     request.GetInt("effort", 0),
		Skill:      request.GetInt("skill", 0),
		Assets:     request.GetInt("assets", 0),
		SkillName:  request.GetString("skill_name", ""),
	})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(out), nil
}
