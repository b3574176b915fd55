package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	sourcesURI  = "typegen://sources"
	modelPrefix = "typegen://model/"
)

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that LLM clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {
	srv.AddResource(
		mcp.NewResource(
			sourcesURI,
			"Stored Database Sources",
			mcp.WithResourceDescription("Stored database sources typegen can read a catalog from."),
			mcp.WithMIMEType("application/json"),
		),
		s.handleSourcesResource,
	)

	srv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			modelPrefix+"{source}",
			"Type Model",
			mcp.WithTemplateDescription(
				"The type model of a stored source: tables with their fields, "+
					"scalar types and inferred associations.",
			),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleModelResource,
	)
}

// handleSourcesResource returns a JSON list of the stored sources.
func (s *MCPServer) handleSourcesResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	items, err := s.listSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return jsonContents(sourcesURI, items)
}

// handleModelResource builds and returns the model of one source.
func (s *MCPServer) handleModelResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	uri := request.Params.URI
	name := strings.TrimPrefix(uri, modelPrefix)
	if name == "" || name == uri {
		return nil, fmt.Errorf("invalid model URI %q: expected %s{source}", uri, modelPrefix)
	}

	tables, err := s.gen.ModelFromSource(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("build model for %q: %w", name, err)
	}
	return jsonContents(uri, tables)
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
