package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	logcontext "github.com/va6996/mountvacation-mcp/context"
	"github.com/va6996/mountvacation-mcp/log"
)

// ToolExecutor is the function signature for executing a tool
type ToolExecutor func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// ErrorReporter is implemented by tool results that carry a domain error payload.
type ErrorReporter interface {
	IsError() bool
}

// Registry manages the registration of MCP tools
type Registry struct {
	tools     []mcp.Tool
	executors map[string]ToolExecutor
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:     make([]mcp.Tool, 0),
		executors: make(map[string]ToolExecutor),
	}
}

// Register adds a tool to the registry with its executor. Registering a name twice replaces the executor.
func (r *Registry) Register(tool mcp.Tool, executor ToolExecutor) {
	if _, exists := r.executors[tool.Name]; exists {
		for i := range r.tools {
			if r.tools[i].Name == tool.Name {
				r.tools[i] = tool
			}
		}
	} else {
		r.tools = append(r.tools, tool)
	}
	r.executors[tool.Name] = executor
}

// GetTools returns all registered tools
func (r *Registry) GetTools() []mcp.Tool {
	return r.tools
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.executors))
	for n := range r.executors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ExecuteTool runs a registered tool by name
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	executor, ok := r.executors[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	ctx, _ = logcontext.EnsureRequestID(ctx)
	ctx = logcontext.WithToolName(ctx, name)

	start := time.Now()
	log.Infof(ctx, "Registry: executing tool %s", name)
	result, err := executor(ctx, args)
	if err != nil {
		log.Warnf(ctx, "Registry: tool %s failed after %s: %v", name, time.Since(start), err)
		return nil, err
	}
	log.Infof(ctx, "Registry: tool %s finished in %s", name, time.Since(start))
	return result, nil
}

// CallTool executes a tool and renders the outcome as an MCP result: JSON text,
// flagged as an error when the executor fails or the payload reports one.
func (r *Registry) CallTool(ctx context.Context, name string, args map[string]interface{}) *mcp.CallToolResult {
	result, err := r.ExecuteTool(ctx, name, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	res := mcp.NewToolResultText(string(b))
	if rep, ok := result.(ErrorReporter); ok && rep.IsError() {
		res.IsError = true
	}
	return res
}

// Handler adapts a registered tool to an mcp-go handler.
func (r *Registry) Handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return r.CallTool(ctx, name, req.GetArguments()), nil
	}
}

// Attach exposes every registered tool on s.
func (r *Registry) Attach(s *server.MCPServer) {
	for _, tool := range r.tools {
		s.AddTool(tool, r.Handler(tool.Name))
	}
}
