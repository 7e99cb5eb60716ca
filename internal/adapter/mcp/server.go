// Package mcp exposes the tool pipeline over the Model Context Protocol so
// any MCP-speaking agent can drive the browser.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"pagepilot/internal/adapter/tool"
)

const serverVersion = "1.0.0"

// Server bridges the tool registry and executor to an MCP server.
type Server struct {
	mcp    *mcpserver.MCPServer
	exec   *tool.Executor
	logger *slog.Logger
}

// New builds an MCP server with every registered tool exposed under its
// registry name and schema.
func New(reg *tool.Registry, exec *tool.Executor, logger *slog.Logger) *Server {
	s := &Server{
		mcp:    mcpserver.NewMCPServer("pagepilot", serverVersion),
		exec:   exec,
		logger: logger,
	}

	for _, schema := range reg.Schemas() {
		params := schema.Parameters
		if len(params) == 0 {
			params = json.RawMessage(`{"type": "object"}`)
		}
		s.mcp.AddTool(
			mcp.NewToolWithRawSchema(schema.Name, schema.Description, params),
			toolHandler(exec, schema.Name),
		)
	}
	logger.Info("mcp tools registered", "count", len(reg.Schemas()))
	return s
}

// toolHandler adapts one named tool to the MCP call contract. Pipeline
// failures come back as MCP error results, never as transport errors.
func toolHandler(exec *tool.Executor, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if args := request.GetArguments(); len(args) > 0 {
			data, err := json.Marshal(args)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
			}
			raw = data
		}

		res := exec.Run(ctx, name, raw)
		if res.IsError() {
			return mcp.NewToolResultError(res.Text), nil
		}

		text := res.Text
		if len(res.Payload) > 0 {
			text += "\n" + string(res.Payload)
		}
		return mcp.NewToolResultText(text), nil
	}
}

// Serve blocks, speaking the chosen transport until the process ends or the
// listener fails.
func (s *Server) Serve(transport, addr string) error {
	switch transport {
	case "stdio":
		s.logger.Info("serving mcp over stdio")
		return mcpserver.ServeStdio(s.mcp)
	case "http":
		s.logger.Info("serving mcp over streamable http", "addr", addr)
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(addr)
	default:
		return fmt.Errorf("unsupported transport %q (use stdio or http)", transport)
	}
}
