package mcpserver

import (
	"context"
	"strings"

	"nexus-gm/internal/character"
	"nexus-gm/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerAdventureTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"start_adventure",
			mcp.WithDescription("Start a Nexus Arcanum adventure, or resume the active one, and return the current scene with numbered choices."),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Player id")),
			mcp.WithString("channel_id", mcp.Description("Channel id, default mcp")),
			mcp.WithString("mode", mcp.Description("solo|party, default solo")),
			mcp.WithString("theme", mcp.Description("Optional theme for the opening scene")),
			mcp.WithString("character_name", mcp.Description("Create a character with this name")),
			mcp.WithString("descriptor", mcp.Description("Character descriptor, e.g. scarred")),
			mcp.WithString("type", mcp.Description("warrior|adept|explorer|speaker")),
			mcp.WithString("focus", mcp.Description("Character focus, e.g. commands fire")),
		),
		s.handleStartAdventure,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"game_status",
			mcp.WithDescription("Current session, scene, choices and character sheet."),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Player id")),
			mcp.WithString("session_id", mcp.Description("Session id; defaults to the player's active session")),
			mcp.WithString("channel_id", mcp.Description("Channel used to find the active session")),
		),
		s.handleGameStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"end_adventure",
			mcp.WithDescription("End the player's adventure."),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Player id")),
			mcp.WithString("session_id", mcp.Description("Session id; defaults to the player's active session")),
			mcp.WithString("channel_id", mcp.Description("Channel used to find the active session")),
		),
		s.handleEndAdventure,
	)
}

func (s *Server) handleStartAdventure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	channelID := strings.TrimSpace(request.GetString("channel_id", ""))
	if channelID == "" {
		channelID = defaultChannel
	}

	if existing, err := s.engine.SessionForUser(userID, channelID); err == nil {
		status, err := s.engine.GameStatus(existing.ID, userID)
		if err != nil {
			return mapDomainError(err), nil
		}
		return toolResult(map[string]any{
			"session_id": existing.ID,
			"resumed":    true,
			"scene":      status.State.SceneDescription,
			"choices":    status.State.AvailableChoices,
			"character":  status.Character,
		}), nil
	}

	mode := session.Mode(strings.ToLower(request.GetString("mode", string(session.ModeSolo))))
	info, err := s.engine.CreateSession(ctx, channelID, userID, mode)
	if err != nil {
		return mapDomainError(err), nil
	}

	out := map[string]any{"session_id": info.ID, "resumed": false}
	if typ := request.GetString("type", ""); typ != "" {
		c, err := s.engine.CreateCharacter(ctx, info.ID, userID, character.BuildInput{
			Name:       request.GetString("character_name", userID),
			Descriptor: request.GetString("descriptor", ""),
			Type:       typ,
			Focus:      request.GetString("focus", ""),
		})
		if err != nil {
			_ = s.engine.EndSession(ctx, info.ID)
			return mapDomainError(err), nil
		}
		out["character"] = c.Summary()
	}

	turn, err := s.engine.BeginTurn(ctx, info.ID, userID, request.GetString("theme", ""))
	if err != nil {
		return mapDomainError(err), nil
	}
	out["scene"] = turn.Scene
	out["choices"] = turn.Choices
	return toolResult(out), nil
}

func (s *Server) handleGameStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	info, errResp := s.resolveSession(request, userID)
	if errResp != nil {
		return errResp, nil
	}
	status, err := s.engine.GameStatus(info.ID, userID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(status), nil
}

func (s *Server) handleEndAdventure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	info, errResp := s.resolveSession(request, userID)
	if errResp != nil {
		return errResp, nil
	}
	if err := s.engine.EndSession(ctx, info.ID); err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{
		"session_id": info.ID,
		"status":     session.StatusCompleted,
		"turns":      info.TurnCount,
	}), nil
}
