package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/faucetdb/typegen/internal/service"
)

// registerTools registers all typegen MCP tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {
	formatParam := mcp.WithString("format",
		mcp.Description("Output format: graphql (default), openapi or json"),
		mcp.Enum("graphql", "openapi", "json"),
	)
	objectsOnlyParam := mcp.WithBoolean("objects_only",
		mcp.Description("Emit only the per-table files"),
	)
	rootOnlyParam := mcp.WithBoolean("root_only",
		mcp.Description("Emit only the aggregate file"),
	)

	srv.AddTool(
		mcp.NewTool("typegen_list_sources",
			mcp.WithDescription(
				"List the stored database sources typegen can read a catalog from. "+
					"Returns each source's name, driver and schema. Use a name with "+
					"typegen_generate_from_source.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleListSources,
	)

	srv.AddTool(
		mcp.NewTool("typegen_generate_from_ddl",
			mcp.WithDescription(
				"Generate API types from SQL DDL. Every CREATE TABLE statement becomes "+
					"an object type; columns ending in _id become inferred associations. "+
					"Returns the generated files, each under a '# <file name>' header.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("ddl",
				mcp.Required(),
				mcp.Description("SQL text containing CREATE TABLE statements"),
			),
			formatParam,
			objectsOnlyParam,
			rootOnlyParam,
		),
		s.handleGenerateFromDDL,
	)

	srv.AddTool(
		mcp.NewTool("typegen_generate_from_source",
			mcp.WithDescription(
				"Generate API types from the live catalog of a stored database source. "+
					"Only base tables are included. Returns the generated files, each under "+
					"a '# <file name>' header.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Name of the stored source (see typegen_list_sources)"),
			),
			formatParam,
			objectsOnlyParam,
			rootOnlyParam,
		),
		s.handleGenerateFromSource,
	)
}

// sourceInfo is the listing shape of a stored source.
type sourceInfo struct {
	Name   string `json:"name"`
	Label  string `json:"label,omitempty"`
	Driver string `json:"driver"`
	Schema string `json:"schema,omitempty"`
}

func (s *MCPServer) listSources(ctx context.Context) ([]sourceInfo, error) {
	sources, err := s.gen.ListSources(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]sourceInfo, len(sources))
	for i, src := range sources {
		items[i] = sourceInfo{Name: src.Name, Label: src.Label, Driver: src.Driver, Schema: src.Schema}
	}
	return items, nil
}

// handleListSources returns the stored sources without DSNs.
func (s *MCPServer) handleListSources(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	items, err := s.listSources(ctx)
	if err != nil {
		return toolError("Failed to list sources: %v", err)
	}
	return successJSON(items)
}

// handleGenerateFromDDL renders the DDL passed in the request.
func (s *MCPServer) handleGenerateFromDDL(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	ddl, err := requireString(request, "ddl")
	if err != nil {
		return toolError("%v", err)
	}
	opts, err := renderOptions(request)
	if err != nil {
		return toolError("%v", err)
	}

	tables, err := s.gen.ModelFromDDL(ctx, ddl)
	if err != nil {
		return toolError("Failed to build model: %v", err)
	}
	files, err := s.gen.Render(tables, opts)
	if err != nil {
		return toolError("Failed to render: %v", err)
	}
	return successFiles(files)
}

// handleGenerateFromSource reads a stored source's catalog and renders it.
func (s *MCPServer) handleGenerateFromSource(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	name, err := requireString(request, "source")
	if err != nil {
		return toolError("%v", err)
	}
	opts, err := renderOptions(request)
	if err != nil {
		return toolError("%v", err)
	}

	tables, err := s.gen.ModelFromSource(ctx, name)
	if errors.Is(err, service.ErrSourceNotFound) {
		items, _ := s.listSources(ctx)
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.Name
		}
		return toolError("Source %q not found. Available sources: %v", name, names)
	}
	if err != nil {
		return toolError("Failed to read catalog of %q: %v", name, err)
	}

	files, err := s.gen.Render(tables, opts)
	if err != nil {
		return toolError("Failed to render: %v", err)
	}
	s.logger.Debug("mcp generation", "source", name, "files", len(files))
	return successFiles(files)
}
