// Package mcpserver exposes the game-master operations as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"nexus-gm/internal/gm"
	"nexus-gm/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "nexus-gm"
	serverVersion = "0.1.0"
	// Sessions started over MCP without a channel land here.
	defaultChannel = "mcp"
)

type Server struct {
	engine *gm.Engine

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(engine *gm.Engine) *Server {
	mcpSrv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		engine:     engine,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerAdventureTools()
	s.registerPlayTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"session://{session_id}/state",
			"session_state",
			mcp.WithTemplateDescription("Game state of a session: scene, choices, NPCs and recent events"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := request.Params.URI
			if !strings.HasPrefix(raw, "session://") || !strings.HasSuffix(raw, "/state") {
				return nil, nil
			}
			sessionID := strings.TrimSuffix(strings.TrimPrefix(raw, "session://"), "/state")
			if sessionID == "" {
				return nil, nil
			}
			status, err := s.engine.GameStatus(sessionID, "")
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(status)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      raw,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			}, nil
		},
	)
}

// resolveSession uses session_id when given, otherwise the user's active
// session in channel_id (any channel when empty).
func (s *Server) resolveSession(request mcp.CallToolRequest, userID string) (session.SessionInfo, *mcp.CallToolResult) {
	if id := strings.TrimSpace(request.GetString("session_id", "")); id != "" {
		info, err := s.engine.Store().Session(id)
		if err != nil {
			return session.SessionInfo{}, mapDomainError(err)
		}
		if !info.HasUser(userID) {
			return session.SessionInfo{}, mapDomainError(gm.ErrNotInSession)
		}
		return info, nil
	}
	info, err := s.engine.SessionForUser(userID, strings.TrimSpace(request.GetString("channel_id", "")))
	if err != nil {
		return session.SessionInfo{}, toolError("session_not_found", "no active adventure; call start_adventure first")
	}
	return info, nil
}
