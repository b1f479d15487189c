// Package server implements the MCP (Model Context Protocol) server for Lab hue rotation.
//
// This package provides a JSON-RPC 2.0 server that exposes the hue pipeline
// through the MCP protocol, so an MCP client can load an image, inspect its
// colors and preview hue rotations.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Color Operations:
//   - image_sample_color: Get color at pixel, including CIE L*a*b*
//
// Hue Operations:
//   - image_hue_rotate: Rotate hue in Lab (or HSL) and return a PNG
//   - image_hue_reset: Close an image's session and re-read the file on next use
//
// # Hue Sessions
//
// Lab rotations go through one session per image path. The first call
// decomposes the image into L, a* and b* planes; later calls only rotate and
// convert back. A session is rebuilt when a call asks for the other angle mode.
// At most Config.MaxSessions sessions are kept; the least recently used one is
// closed to make room. image_hue_reset closes a session explicitly.
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded images keyed by path.
// Each entry is decoded once into the RGBA layout the hue pipeline reads, and
// sessions share those pixels. An entry stays until image_hue_reset evicts it
// or the server closes.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Configuration
//
// ConfigFromEnv reads:
//   - LAB_HUE_LOG_LEVEL=debug: log each request on stderr
//   - LAB_HUE_DIVISOR: fixed-point divisor, a power of two in [256, 16384]
//   - LAB_HUE_MAX_SESSIONS: how many images may keep Lab planes at once
//
// # Usage
//
//	srv := server.New(server.ConfigFromEnv())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
