package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/contour"
	"github.com/aretw0/contour/pkg/schema"
	"github.com/aretw0/contour/pkg/validator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Verdict is the payload returned by the validation tools.
type Verdict struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Checker defines the interface required by the MCP server to reach named schemas.
type Checker interface {
	Check(ctx context.Context, name string, value any) (bool, error)
	Explain(ctx context.Context, name string, value any) error
	List(ctx context.Context) ([]string, error)
}

// Server wraps a Checker and exposes it as an MCP Server.
type Server struct {
	checker   Checker
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(checker Checker) *Server {
	s := &Server{
		checker:   checker,
		mcpServer: server.NewMCPServer("contour-mcp", strings.TrimSpace(contour.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

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
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: validate
	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Validate a value against an inline schema."),
		mcp.WithObject("schema", mcp.Required(), mcp.Description("Schema node: {type, required, items, properties, requiredKeys}")),
		mcp.WithString("value", mcp.Description("JSON-encoded candidate value. Omit to validate an absent value.")),
		mcp.WithBoolean("explain", mcp.Description("Report the first failure")),
	), s.handleValidate)

	// TOOL: validate_named
	s.mcpServer.AddTool(mcp.NewTool("validate_named",
		mcp.WithDescription("Validate a value against a registered schema."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Registered schema name")),
		mcp.WithString("value", mcp.Description("JSON-encoded candidate value. Omit to validate an absent value.")),
		mcp.WithBoolean("explain", mcp.Description("Report the first failure")),
	), s.handleValidateNamed)

	// TOOL: list_schemas
	s.mcpServer.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List the names of registered schemas."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.checker.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		return textResult(names)
	})
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	sc, err := schemaArgument(args["schema"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid schema: %v", err)), nil
	}
	value, err := valueArgument(args["value"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid value: %v", err)), nil
	}

	v, err := validator.Compile(sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !request.GetBool("explain", false) {
		return textResult(Verdict{Valid: v.Validate(value)})
	}
	return textResult(verdictOf(v.Check(value)))
}

func (s *Server) handleValidateNamed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := valueArgument(request.GetArguments()["value"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid value: %v", err)), nil
	}

	if !request.GetBool("explain", false) {
		ok, err := s.checker.Check(ctx, name, value)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return textResult(Verdict{Valid: ok})
	}

	failure := s.checker.Explain(ctx, name, value)
	var ve *validator.ValidationError
	if failure != nil && !errors.As(failure, &ve) {
		return mcp.NewToolResultError(failure.Error()), nil
	}
	return textResult(verdictOf(failure))
}

func (s *Server) registerResources() {
	// EXPOSE: contour://schemas
	s.mcpServer.AddResource(mcp.NewResource("contour://schemas", "Registered Schemas",
		mcp.WithMIMEType("application/json"),
	), s.readSchemas)
}

func (s *Server) readSchemas(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.checker.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	jsonBytes, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema names: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "contour://schemas",
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func verdictOf(failure error) Verdict {
	if failure == nil {
		return Verdict{Valid: true}
	}
	return Verdict{Valid: false, Error: failure.Error()}
}

func textResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// schemaArgument accepts the schema either as a JSON object or as a JSON-encoded string.
func schemaArgument(raw any) (schema.Schema, error) {
	switch v := raw.(type) {
	case map[string]any:
		return schema.FromMap(v)
	case string:
		return schema.Parse([]byte(v), schema.FormatJSON)
	case nil:
		return schema.Schema{}, errors.New("schema is required")
	default:
		return schema.Schema{}, fmt.Errorf("unexpected schema argument %T", raw)
	}
}

// valueArgument decodes a JSON-encoded candidate. A missing argument is the absent value.
func valueArgument(raw any) (any, error) {
	text, ok := raw.(string)
	if !ok || strings.TrimSpace(text) == "" {
		if raw != nil && !ok {
			return nil, fmt.Errorf("expected JSON string, got %T", raw)
		}
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
