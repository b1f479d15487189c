// Package imaging connects decoded Go images to the Lab hue pipeline.
//
// It loads and caches images from disk, moves pixels between image.Image
// values and pipeline buffers, samples colors, and encodes results for the
// MCP server and CLI.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Pixel Bridge
//
// ToBuffer copies any image.Image into an *image.NRGBA anchored at (0,0) and
// wraps its Pix slice as a buffer.FormatRGBA8888 buffer without a further
// copy. NRGBA is non-premultiplied, which is what the color converter
// expects, and its alpha byte rides through the pipeline untouched.
//
// # Hue Rotation
//
//   - RotateHue: one forward, rotate, inverse pass.
//   - HueSession: keeps the Lab planes between calls so a client can try many
//     angles on one image.
//   - ShiftHueHSL: the plain HSL hue shift, for comparison.
//
// Angles are in radians; Radians and Degrees convert.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - Lab: CIE L*a*b* (D65) floats plus the 8-bit encoding the pipeline stores
//
// # Thread Safety
//
// ImageCache and HueSession are safe for concurrent use. The other functions
// are stateless and only read their input images.
package imaging
