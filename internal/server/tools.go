package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, alpha presence and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel as hex, RGB, RGBA, HSL and CIE L*a*b*. The Lab result includes chroma, hue angle and the 8-bit values the hue rotation works on.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Hue Operations
		{
			Name:        "image_hue_rotate",
			Description: "Rotate the hue of an image and return the result as base64-encoded PNG. In Lab space the a*/b* plane is rotated so lightness is preserved; the image stays decomposed between calls so trying several angles is cheap. HSL space applies a plain HSL hue shift for comparison.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"angle": map[string]interface{}{
						"type":        "number",
						"description": "Rotation angle, counterclockwise in the a*/b* plane",
					},
					"degrees": map[string]interface{}{
						"type":        "boolean",
						"description": "Angle is in degrees (true) or radians (false). Default true",
						"default":     true,
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"absolute", "relative"},
						"description": "absolute rotates from the original image on every call; relative adds to the previous rotation. Default absolute",
						"default":     "absolute",
					},
					"space": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"lab", "hsl"},
						"description": "Color space to rotate in. Default lab",
						"default":     "lab",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the returned image (e.g., 0.5 for a half-size preview). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "angle"},
			},
		},
		{
			Name:        "image_hue_reset",
			Description: "Close the hue session kept for an image and forget its cached pixels. The next call reads the file from disk again.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
