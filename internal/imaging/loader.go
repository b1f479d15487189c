package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
)

// Picture is a decoded image file ready for the hue pipeline.
//
// The pixels are normalized once, at load time, into a non-premultiplied
// NRGBA image anchored at (0,0). Buffer is a FormatRGBA8888 view of the same
// memory, so hue sessions and color sampling read the decoded pixels without
// another copy. Pictures are shared between callers and must not be modified.
type Picture struct {
	Image  *image.NRGBA
	Buffer *buffer.Buffer
	Info   ImageInfo
}

// ImageInfo describes an image file as it was decoded.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format comes from the file extension: "png", "jpeg", "gif", "bmp",
	// "tiff", "webp" or "unknown". Decoding itself sniffs the content.
	Format string `json:"format"`

	// ColorDepth is the decoded bit depth per channel, "8-bit" or "16-bit".
	// Pictures are always held at 8 bits.
	ColorDepth string `json:"color_depth"`

	// HasAlpha reports whether any pixel is less than fully opaque.
	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// ImageCache holds decoded Pictures keyed by the path they were loaded from.
//
// Entries stay until Evict or Clear. ImageCache is safe for concurrent use;
// two goroutines loading the same uncached path may both decode it, and the
// first one stored wins.
type ImageCache struct {
	mu       sync.RWMutex
	pictures map[string]*Picture
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{pictures: make(map[string]*Picture)}
}

// Load returns the Picture for path, decoding the file on first use.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. JPEGs carrying an
// EXIF orientation tag come back upright.
func (c *ImageCache) Load(path string) (*Picture, error) {
	c.mu.RLock()
	p, ok := c.pictures[path]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := decodePicture(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.pictures[path]; ok {
		return cached, nil
	}
	c.pictures[path] = p
	return p, nil
}

// Evict drops path from the cache; the next Load reads the file again.
// It reports whether an entry was present.
func (c *ImageCache) Evict(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pictures[path]
	delete(c.pictures, path)
	return ok
}

// Clear drops every entry.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.pictures = make(map[string]*Picture)
	c.mu.Unlock()
}

// Len returns the number of cached pictures.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pictures)
}

func decodePicture(path string) (*Picture, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	decoded, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	n, b, err := ToBuffer(decoded)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return &Picture{
		Image:  n,
		Buffer: b,
		Info: ImageInfo{
			Width:         b.Width,
			Height:        b.Height,
			Format:        formatFromExt(path),
			ColorDepth:    colorDepth(decoded),
			HasAlpha:      !n.Opaque(),
			FileSizeBytes: stat.Size(),
		},
	}, nil
}

// colorDepth reports the per-channel depth of a decoded image.
func colorDepth(img image.Image) string {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		return "16-bit"
	}
	return "8-bit"
}

// LoadImageInfo loads path through cache and returns a copy of its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	p, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	info := p.Info
	return &info, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	p, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: p.Info.Width, Height: p.Info.Height}, nil
}

// formatFromExt maps a file extension to a format name.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	default:
		return "unknown"
	}
}
