package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/ironsheep/lab-hue-mcp/internal/imaging"
	"github.com/ironsheep/lab-hue-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_hue_rotate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("%s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Hue Operations
	case "image_hue_rotate":
		return s.handleImageHueRotate(args)
	case "image_hue_reset":
		return s.handleImageHueReset(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it logs the error and returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal tool result: %v", err)
		return ""
	}
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pic, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(pic.Image, a.X, a.Y)
}

// === Hue Operation Handlers ===

type imageHueRotateArgs struct {
	Path    string   `json:"path"`
	Angle   *float64 `json:"angle"`
	Degrees *bool    `json:"degrees"`
	Mode    string   `json:"mode"`
	Space   string   `json:"space"`
	Scale   float64  `json:"scale"`
}

func (s *Server) handleImageHueRotate(args json.RawMessage) (interface{}, error) {
	var a imageHueRotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Angle == nil {
		return nil, fmt.Errorf("angle is required")
	}
	if math.IsNaN(*a.Angle) || math.IsInf(*a.Angle, 0) {
		return nil, fmt.Errorf("angle must be finite")
	}
	if a.Mode == "" {
		a.Mode = "absolute"
	}
	if a.Mode != "absolute" && a.Mode != "relative" {
		return nil, fmt.Errorf("unknown mode: %s", a.Mode)
	}
	if a.Space == "" {
		a.Space = "lab"
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	radians := *a.Angle
	if a.Degrees == nil || *a.Degrees {
		radians = imaging.Radians(*a.Angle)
	}

	pic, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var (
		out image.Image
		net float64
	)
	switch a.Space {
	case "lab":
		sess, err := s.session(a.Path, pic, a.Mode == "absolute")
		if err != nil {
			return nil, err
		}
		out, err = sess.Rotate(radians)
		if err != nil {
			return nil, err
		}
		net = sess.Angle()
	case "hsl":
		deg := int(math.Round(imaging.Degrees(radians)))
		out = imaging.ShiftHueHSL(pic.Image, deg)
		net = imaging.Radians(float64(deg))
	default:
		return nil, fmt.Errorf("unknown space: %s", a.Space)
	}

	result, err := imaging.EncodePNG(out, a.Scale)
	if err != nil {
		return nil, err
	}
	result.AngleDeg = imaging.Degrees(net)
	result.Space = a.Space
	return result, nil
}

// session returns the hue session for path, creating it when missing or when
// it was built for the other angle mode.
func (s *Server) session(path string, pic *imaging.Picture, absolute bool) (*imaging.HueSession, error) {
	sess, evicted, err := s.sessions.get(path, absolute, func() (*imaging.HueSession, error) {
		opts := []pipeline.Option{pipeline.WithDivisor(s.cfg.Divisor)}
		if absolute {
			opts = append(opts, pipeline.WithAbsoluteAngle())
		}
		s.debugf("New hue session for %s (absolute=%v)", path, absolute)
		return imaging.NewPictureSession(pic, opts...)
	})
	if err != nil {
		return nil, err
	}
	if evicted != "" {
		s.debugf("Closed hue session for %s to stay within %d", evicted, s.cfg.MaxSessions)
	}
	return sess, nil
}

// HueResetResult reports the outcome of image_hue_reset.
type HueResetResult struct {
	Path    string `json:"path"`
	Reset   bool   `json:"reset"`
	Message string `json:"message"`
}

// handleImageHueReset closes the image's session and evicts it from the
// cache, so the next call reads the file from disk again.
func (s *Server) handleImageHueReset(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	dropped := s.sessions.drop(a.Path)
	evicted := s.cache.Evict(a.Path)
	if !dropped && !evicted {
		return &HueResetResult{Path: a.Path, Message: "nothing held for this image"}, nil
	}
	return &HueResetResult{Path: a.Path, Reset: true, Message: "hue session closed; the image will be read again on next use"}, nil
}
