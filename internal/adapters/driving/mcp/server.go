package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// MountPath is where Mount serves MCP over streamable HTTP.
const MountPath = "/mcp"

const instructions = "Search Delhi district court roster documents by complex, zone and category, " +
	"or find judges and their courtrooms by name."

// Server exposes roster search to assistants over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// complex, when set, scopes every tool and resource to one court complex.
	complex domain.Complex
}

// Option configures a Server.
type Option func(*Server)

// WithComplex scopes the server to one court complex. Tools default to it
// when the caller names no complex and reject any other.
func WithComplex(c domain.Complex) Option {
	return func(s *Server) {
		s.complex = c
	}
}

// NewServer builds the roster MCP server. Tools and resources are registered
// for the ports that are set.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	for _, opt := range opts {
		opt(s)
	}
	if s.complex != "" {
		c, err := domain.ParseComplex(string(s.complex))
		if err != nil {
			return nil, err
		}
		s.complex = c
	}

	title := "Delhi court rosters"
	text := instructions
	if s.complex != "" {
		title += " (" + string(s.complex) + ")"
		text += " Only documents of the " + string(s.complex) + " complex are served."
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "lexroster",
		Title:   title,
		Version: Version,
	}, &mcp.ServerOptions{Instructions: text})
	s.server.AddReceivingMiddleware(logCalls)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Complex returns the complex the server is scoped to, or "".
func (s *Server) Complex() domain.Complex {
	return s.complex
}

// Run serves a single assistant over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Mount serves MCP at MountPath and every other path from api. A nil api
// leaves only the MCP endpoint.
func (s *Server) Mount(api http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MountPath, s.Handler())
	if api != nil {
		mux.Handle("/", api)
	}
	return mux
}

// logCalls logs each MCP request with its duration.
func logCalls(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		start := time.Now()
		res, err := next(ctx, method, req)
		if err != nil {
			logger.Warn("MCP %s failed after %s: %v", method, time.Since(start), err)
			return res, err
		}
		logger.Debug("MCP %s took %s", method, time.Since(start))
		return res, nil
	}
}
