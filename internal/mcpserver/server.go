package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"casino-livesync/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the session facade as MCP tools over streamable HTTP.
type Server struct {
	sess *session.Session

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(sess *session.Session) *Server {
	mcpSrv := server.NewMCPServer(
		"casino-livesync",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		sess:       sess,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerPublicTools()
	s.registerGameplayTools()
	s.registerTournamentTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"game://{game_id}/state",
			"game_state",
			mcp.WithTemplateDescription("Current table state with the newest chat lines"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := request.Params.URI
			if !strings.HasPrefix(raw, "game://") || !strings.HasSuffix(raw, "/state") {
				return nil, nil
			}
			gameID := strings.TrimSuffix(strings.TrimPrefix(raw, "game://"), "/state")
			if gameID == "" {
				return nil, nil
			}
			g, err := s.sess.GetGame(gameID)
			if err != nil {
				return nil, err
			}
			chat, err := s.sess.GetChat(gameID, defaultChatLimit)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(map[string]any{
				"game_id": gameID,
				"game":    g,
				"chat":    chat,
				"camera":  s.sess.Camera(gameID),
			})
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
