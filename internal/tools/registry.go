package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Registry holds the registered tools and dispatches calls to them. It is
// the single point where upstream faults become user-visible error text;
// nothing below it retries and nothing above it sees a raw error.
type Registry struct {
	tools map[string]Tool
	order []string // registration order, for stable tools/list output
	log   *slog.Logger
}

// Definition is a tool description for the MCP tools/list response.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools: make(map[string]Tool),
		log:   logger,
	}
}

// Register adds a tool. Returns an error if the name is already taken.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	r.log.Debug("tool registered", "tool", name)
	return nil
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) Tool {
	return r.tools[name]
}

// Definitions returns all tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		})
	}
	return defs
}

// Execute dispatches a tool call. Every outcome is a ToolResult: unknown
// tools and handler faults are converted to error text here rather than
// propagated, so one bad call can never take down the transport.
func (r *Registry) Execute(ctx context.Context, call ToolCall) ToolResult {
	t := r.Get(call.Name)
	if t == nil {
		r.log.Warn("unknown tool called", "tool", call.Name)
		return ToolResult{
			Content: fmt.Sprintf("Unknown tool: %q", call.Name),
			IsError: true,
		}
	}

	r.log.Info("tool call", "tool", call.Name)

	if len(call.Arguments) == 0 {
		call.Arguments = json.RawMessage("{}")
	}

	result, err := t.Execute(ctx, call)
	if err != nil {
		r.log.Error("tool call failed", "tool", call.Name, "error", err)
		return ToolResult{
			Content: fmt.Sprintf("Error: %v", err),
			IsError: true,
		}
	}

	return result
}
