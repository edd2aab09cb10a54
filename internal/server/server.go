package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/config"
	"github.com/ironsheep/sketch-classifier/internal/imaging"
	"github.com/ironsheep/sketch-classifier/internal/log"
	"github.com/ironsheep/sketch-classifier/internal/session"
)

// DefaultSessionID names the session used when a tool call omits
// session_id.
const DefaultSessionID = "default"

// Server handles MCP protocol communication
type Server struct {
	cache  *imaging.ImageCache
	cfg    config.Config
	loader classify.Loader

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server. Sessions are built from cfg and load their models
// with loader.
func New(cfg config.Config, loader classify.Loader) *Server {
	return &Server{
		cache:    imaging.NewImageCache(),
		cfg:      cfg,
		loader:   loader,
		sessions: make(map[string]*session.Session),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from in and writes responses
// to out until in is exhausted.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Point paths can be long
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Warning.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Error.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// Close releases every session.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for id, sess := range s.sessions {
		if err := sess.Close(); err != nil && first == nil {
			first = fmt.Errorf("failed to close session %s: %w", id, err)
		}
		delete(s.sessions, id)
	}
	s.cache.Clear()
	return first
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "sketch-classifier-mcp",
				"version": "0.1.0",
			},
		},
	}
}

// newSession creates a session from cfg, registers it under a fresh ID and
// starts its model load.
func (s *Server) newSession(cfg config.Config) (string, *session.Session, <-chan error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, loaded := s.addSession(id, cfg)
	return id, sess, loaded
}

// lookupSession returns the session for id. An empty id selects the default
// session, which is created on first use.
func (s *Server) lookupSession(id string) (string, *session.Session, error) {
	if id == "" {
		id = DefaultSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return id, sess, nil
	}
	if id != DefaultSessionID {
		return "", nil, fmt.Errorf("unknown session: %s", id)
	}

	sess, loaded := s.addSession(id, s.cfg)
	go logLoad(id, loaded)
	return id, sess, nil
}

// addSession builds a session from cfg and registers it under id. The caller
// must hold s.mu.
func (s *Server) addSession(id string, cfg config.Config) (*session.Session, <-chan error) {
	sess, loaded := session.NewFromConfig(context.Background(), cfg, s.loader)
	s.sessions[id] = sess
	log.Info.Printf("session %s created (%s mode)", id, cfg.StartMode())
	return sess, loaded
}
