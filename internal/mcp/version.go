package mcp

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/dart-portal/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the dart-portal MCP server version. Use this to verify connectivity."),
	)
}

// VersionToolHandler returns the build metadata as JSON.
func VersionToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(map[string]config.VersionInfo{
			"dart_portal": config.GetVersionInfo(),
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return textResult(string(out)), nil
	}
}
