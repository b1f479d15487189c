package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/lab-hue-mcp/internal/hue"
	"github.com/ironsheep/lab-hue-mcp/internal/imaging"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel    = "LAB_HUE_LOG_LEVEL"
	EnvDivisor     = "LAB_HUE_DIVISOR"
	EnvMaxSessions = "LAB_HUE_MAX_SESSIONS"
)

// DefaultMaxSessions bounds how many images keep Lab planes at once.
const DefaultMaxSessions = 8

// Divisor overrides from the environment must fall in this range.
const (
	minEnvDivisor = 256
	maxEnvDivisor = 16384
)

// Config holds server settings.
type Config struct {
	// Divisor is the fixed-point divisor for Lab hue rotation.
	Divisor int32

	// MaxSessions is how many images may hold a hue session at once. The
	// least recently used session is closed to make room for a new one.
	MaxSessions int

	// Debug enables per-request logging on stderr.
	Debug bool

	// Version is reported in the initialize response.
	Version string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Divisor:     hue.DefaultDivisor,
		MaxSessions: DefaultMaxSessions,
		Version:     "0.1.0",
	}
}

// ConfigFromEnv reads LAB_HUE_LOG_LEVEL, LAB_HUE_DIVISOR and
// LAB_HUE_MAX_SESSIONS on top of DefaultConfig. A divisor that is not a power
// of two in [256, 16384], or a session limit below 1, is ignored with a
// warning.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Debug = os.Getenv(EnvLogLevel) == "debug"

	if v := os.Getenv(EnvDivisor); v != "" {
		d, err := strconv.ParseInt(v, 10, 32)
		switch {
		case err != nil:
			log.Printf("Ignoring %s=%q: %v", EnvDivisor, v, err)
		case d < minEnvDivisor || d > maxEnvDivisor || !hue.ValidDivisor(int32(d)):
			log.Printf("Ignoring %s=%d: want a power of two in [%d, %d]", EnvDivisor, d, minEnvDivisor, maxEnvDivisor)
		default:
			cfg.Divisor = int32(d)
		}
	}
	if v := os.Getenv(EnvMaxSessions); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Printf("Ignoring %s=%q: want a positive integer", EnvMaxSessions, v)
		} else {
			cfg.MaxSessions = n
		}
	}
	return cfg
}

// Server handles MCP protocol communication
type Server struct {
	cfg      Config
	cache    *imaging.ImageCache
	sessions *sessionTable
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

// New creates a new MCP server instance
func New(cfg Config) *Server {
	if cfg.Divisor == 0 {
		cfg.Divisor = hue.DefaultDivisor
	}
	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Version == "" {
		cfg.Version = DefaultConfig().Version
	}
	return &Server{
		cfg:      cfg,
		cache:    imaging.NewImageCache(),
		sessions: newSessionTable(cfg.MaxSessions),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted. Hue sessions and cached images are dropped on return.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	defer s.Close()

	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}
		s.debugf("<- %s id=%v", req.Method, req.ID)

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// Close releases every hue session and empties the image cache.
func (s *Server) Close() {
	s.sessions.closeAll()
	s.cache.Clear()
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
				"name":    "lab-hue-mcp",
				"version": s.cfg.Version,
			},
		},
	}
}

func (s *Server) debugf(format string, args ...interface{}) {
	if s.cfg.Debug {
		log.Printf(format, args...)
	}
}
