package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toonlab/toon/internal/digest"
)

// ToonDigestResponse is the JSON payload returned by toon_digest.
type ToonDigestResponse struct {
	Path      string `json:"path"`
	ItemCount int    `json:"item_count"`
	Digest    string `json:"digest"`
}

// ToonListEntry is one row in the toon_list response.
type ToonListEntry struct {
	Path      string `json:"path"`
	ItemCount int    `json:"item_count"`
	UpdatedAt string `json:"updated_at"`
}

// ToonListResponse is the JSON payload returned by toon_list.
type ToonListResponse struct {
	Files []ToonListEntry `json:"files"`
	Total int             `json:"total"`
}

// AddToonDigestTool registers the toon_digest tool with an MCP server.
// This function is composable - it can be combined with other tool
// registrations.
func AddToonDigestTool(s *server.MCPServer, service *digest.Service) {
	tool := mcp.NewTool(
		"toon_digest",
		mcp.WithDescription("Get the TOON structural digest of a Python source file: one compact line per function, method, class, or typed variable, with signatures, return types, and condensed docstrings. Digests are recomputed when the file content has changed."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Source file path relative to the project root (e.g., 'src/app/models.py')")),
	)

	s.AddTool(tool, createToonDigestHandler(service))
}

// createToonDigestHandler creates the handler function for toon_digest.
func createToonDigestHandler(service *digest.Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		path, ok := argsMap["path"].(string)
		if !ok || path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		result, err := service.DigestFile(ctx, path)
		if err != nil {
			if os.IsNotExist(err) {
				return mcp.NewToolResultError(fmt.Sprintf("file not found: %s", path)), nil
			}
			return nil, fmt.Errorf("digest failed: %w", err)
		}

		response := &ToonDigestResponse{
			Path:      result.Path,
			ItemCount: result.ItemCount,
			Digest:    result.Digest,
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddToonListTool registers the toon_list tool with an MCP server.
func AddToonListTool(s *server.MCPServer, service *digest.Service) {
	tool := mcp.NewTool(
		"toon_list",
		mcp.WithDescription("List every Python source file with a stored TOON digest, with item counts and last update times."),
	)

	s.AddTool(tool, createToonListHandler(service))
}

// createToonListHandler creates the handler function for toon_list.
func createToonListHandler(service *digest.Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		digests, err := service.Store().List()
		if err != nil {
			return nil, fmt.Errorf("failed to list digests: %w", err)
		}

		response := &ToonListResponse{
			Files: make([]ToonListEntry, 0, len(digests)),
			Total: len(digests),
		}
		for _, d := range digests {
			response.Files = append(response.Files, ToonListEntry{
				Path:      d.Path,
				ItemCount: d.ItemCount,
				UpdatedAt: d.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
