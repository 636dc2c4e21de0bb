// Package mcp implements the bridge's MCP server: JSON-RPC 2.0 over
// stdio, exposing the Slack tools via initialize, tools/list and
// tools/call. Requests are handled one at a time; a blocking
// wait_for_reply call holds the stream, which is the intended behavior.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"slackbridge/internal/tools"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "slackbridge"
	serverVersion   = "1.0.0"
)

// maxLineBytes bounds a single JSON-RPC request line (1 MiB).
const maxLineBytes = 1 << 20

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server serves the tool registry over a JSON-RPC 2.0 stream.
type Server struct {
	registry *tools.Registry
	logger   *slog.Logger
	in       io.Reader
	out      io.Writer
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithServerLogger sets the structured logger.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithStreams overrides stdin/stdout (for testing).
func WithStreams(in io.Reader, out io.Writer) ServerOption {
	return func(s *Server) {
		s.in = in
		s.out = out
	}
}

// NewServer creates a Server over the given registry, bound to
// stdin/stdout by default.
func NewServer(registry *tools.Registry, opts ...ServerOption) *Server {
	s := &Server{
		registry: registry,
		logger:   slog.Default(),
		in:       os.Stdin,
		out:      os.Stdout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run reads requests line by line until the input stream closes or ctx
// is cancelled. Each request produces exactly one response.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server ready", "transport", "stdio")

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req jsonRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.sendError(nil, codeParseError, "Parse error")
			continue
		}

		s.handleRequest(ctx, &req)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request stream: %w", err)
	}

	s.logger.Info("mcp input closed, shutting down")
	return nil
}

func (s *Server) handleRequest(ctx context.Context, req *jsonRPCRequest) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "notifications/initialized":
		// Notification, no response.
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	default:
		s.sendError(req.ID, codeMethodNotFound, "Method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req *jsonRPCRequest) {
	s.sendResult(req.ID, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    serverName,
			"version": serverVersion,
		},
	})
}

func (s *Server) handleToolsList(req *jsonRPCRequest) {
	s.sendResult(req.ID, map[string]any{
		"tools": s.registry.Definitions(),
	})
}

func (s *Server) handleToolsCall(ctx context.Context, req *jsonRPCRequest) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, codeInvalidParams, "Invalid params")
		return
	}

	result := s.registry.Execute(ctx, tools.ToolCall{
		Name:      params.Name,
		Arguments: params.Arguments,
	})

	s.sendResult(req.ID, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": result.Content},
		},
		"isError": result.IsError,
	})
}

func (s *Server) sendResult(id any, result any) {
	s.send(jsonRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id any, code int, message string) {
	s.send(jsonRPCResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) send(resp jsonRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response", "error", err)
		return
	}
	fmt.Fprintln(s.out, string(data))
}
