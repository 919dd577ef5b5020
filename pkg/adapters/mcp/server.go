package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/embld/interviewflow"
	"github.com/embld/interviewflow/internal/logging"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/ports"
	"github.com/embld/interviewflow/pkg/runner"
	"github.com/embld/interviewflow/pkg/schema"
)

// SchemaURI is the resource holding the Interview State JSON Schema.
const SchemaURI = "interviewflow://schema"

// NodeInfo describes one workflow node for list_nodes.
type NodeInfo struct {
	ID         domain.NodeID `json:"id"`
	Streamable bool          `json:"streamable"`
	Start      bool          `json:"start,omitempty"`
}

// Server wraps the Engine and exposes it as an MCP Server.
// It is stateless: callers pass the state with every call.
type Server struct {
	engine    ports.Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("interviewflow-mcp", interviewflow.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on addr using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	executeTool := mcp.NewTool("execute_node",
		mcp.WithDescription("Run one interview node. Omit state to start a new interview; send the returned state and nextNode with the next call."),
		mcp.WithString("node", mcp.Description("Node to run (defaults to clarification_interview)")),
		mcp.WithString("state", mcp.Description("Interview state as a JSON object (optional)")),
		mcp.WithString("message", mcp.Description("The user's answer, empty to show the current question")),
		mcp.WithOutputSchema[runner.Turn](),
	)
	s.mcpServer.AddTool(executeTool, mcp.NewStructuredToolHandler(s.handleExecuteNode))

	s.mcpServer.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List the workflow nodes in execution order."),
	), s.handleListNodes)
}

// Handler methods for structured tools

func (s *Server) handleExecuteNode(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (runner.Turn, error) {
	node := domain.StartNode
	if raw, _ := args["node"].(string); raw != "" {
		parsed, err := domain.ParseNodeID(raw)
		if err != nil {
			return runner.Turn{}, err
		}
		node = parsed
	}

	state, err := s.decodeState(args["state"])
	if err != nil {
		return runner.Turn{}, err
	}

	message, _ := args["message"].(string)
	res, err := s.engine.Execute(ctx, node, state, message)
	if err != nil {
		s.logger.Warn("MCP execute_node rejected", "node_id", node, "error", err)
		return runner.Turn{}, fmt.Errorf("execute %s: %w", node, err)
	}
	return runner.NewTurn(res), nil
}

// decodeState accepts the state as a JSON string or an object.
func (s *Server) decodeState(v any) (domain.InterviewState, error) {
	switch raw := v.(type) {
	case nil:
		return domain.NewInterviewState(), nil
	case string:
		if raw == "" {
			return domain.NewInterviewState(), nil
		}
		return s.engine.Validator().DecodeJSON([]byte(raw))
	case map[string]any:
		return s.engine.Validator().Decode(raw)
	}
	return domain.InterviewState{}, fmt.Errorf("%w: state must be a JSON object", domain.ErrInvalidState)
}

func (s *Server) handleListNodes(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes := make([]NodeInfo, 0, len(domain.AllNodes()))
	for _, id := range domain.AllNodes() {
		nodes = append(nodes, NodeInfo{ID: id, Streamable: id.Streamable(), Start: id == domain.StartNode})
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode nodes: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(SchemaURI, "Interview State JSON Schema",
		mcp.WithMIMEType("application/schema+json"),
	), func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		doc, err := schema.GenerateJSONSchema()
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SchemaURI,
				MIMEType: "application/schema+json",
				Text:     string(doc),
			},
		}, nil
	})
}
