package mcp

import (
	"context"
	"fmt"

	"github.com/jscott-dev/meetmebot/pkg/tool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

// Server exposes the registered chat tools over the Model Context Protocol
// so external agents can query the portfolio the same way the chat model
// does.
type Server struct {
	server *mcp.Server
}

func New(registry *tool.Registry) (*Server, error) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "meetmebot",
		Version: "1.0.0",
	}, nil)

	for _, spec := range registry.Specs() {
		for _, fd := range spec.FunctionDeclarations {
			inputSchema, err := convertGenaiToJSONSchema(fd.Parameters)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert tool schema",
					goerr.V("tool", fd.Name))
			}

			mcp.AddTool(server, &mcp.Tool{
				Name:        fd.Name,
				Description: fd.Description,
				InputSchema: inputSchema,
			}, dispatchHandler(registry, fd.Name))
		}
	}

	return &Server{server: server}, nil
}

// Run serves MCP over stdio until the context is cancelled
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "MCP server failed")
	}
	return nil
}

// dispatchHandler adapts a registry tool into an MCP tool handler
func dispatchHandler(registry *tool.Registry, name string) func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		resp, err := registry.Execute(ctx, genai.FunctionCall{
			Name: name,
			Args: args,
		})
		if err != nil {
			return nil, nil, goerr.Wrap(err, "tool execution failed", goerr.V("tool", name))
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: resultText(resp)},
			},
		}, nil, nil
	}
}

func resultText(resp *genai.FunctionResponse) string {
	if resp == nil {
		return ""
	}
	if result, ok := resp.Response["result"].(string); ok {
		return result
	}
	return fmt.Sprintf("%v", resp.Response)
}
