package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/faucetdb/typegen/internal/output"
	"github.com/faucetdb/typegen/internal/render"
)

// --------------------------------------------------------------------------
// Parameter extraction helpers
// --------------------------------------------------------------------------

// requireString extracts a required string argument from the tool request.
func requireString(request mcp.CallToolRequest, key string) (string, error) {
	val, err := request.RequireString(key)
	if err != nil || val == "" {
		return "", fmt.Errorf("missing required parameter %q", key)
	}
	return val, nil
}

// renderOptions reads format, objects_only and root_only.
func renderOptions(request mcp.CallToolRequest) (render.Options, error) {
	format, err := render.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Format:      format,
		ObjectsOnly: request.GetBool("objects_only", false),
		RootOnly:    request.GetBool("root_only", false),
	}, nil
}

// --------------------------------------------------------------------------
// Response builders
// --------------------------------------------------------------------------

// successJSON marshals data to JSON and returns it as a tool result.
func successJSON(data interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// successFiles returns rendered files as one text block, each file under a
// "# name" header.
func successFiles(files []render.File) (*mcp.CallToolResult, error) {
	if len(files) == 0 {
		return mcp.NewToolResultText("The schema contains no tables; nothing was generated."), nil
	}
	var buf bytes.Buffer
	if err := output.Print(&buf, files); err != nil {
		return nil, fmt.Errorf("failed to format files: %w", err)
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// toolError returns a tool-level error result. Errors returned this way are
// visible to the LLM so it can self-correct; they do NOT terminate the MCP
// session.
func toolError(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}
