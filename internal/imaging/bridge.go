package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/lab-hue-mcp/internal/buffer"
)

// ToBuffer copies img into a new NRGBA image anchored at (0,0) and wraps its
// pixels as a FormatRGBA8888 buffer. The buffer aliases the returned image's
// Pix slice; it is not owned by any allocator.
func ToBuffer(img image.Image) (*image.NRGBA, *buffer.Buffer, error) {
	n := imaging.Clone(img)
	b, err := wrapNRGBA(n)
	if err != nil {
		return nil, nil, err
	}
	return n, b, nil
}

// newOutput allocates a width x height NRGBA image and its buffer view.
func newOutput(width, height int) (*image.NRGBA, *buffer.Buffer, error) {
	n := image.NewNRGBA(image.Rect(0, 0, width, height))
	b, err := wrapNRGBA(n)
	if err != nil {
		return nil, nil, err
	}
	return n, b, nil
}

func wrapNRGBA(n *image.NRGBA) (*buffer.Buffer, error) {
	b, err := buffer.Wrap(n.Pix, n.Rect.Dx(), n.Rect.Dy(), n.Stride, buffer.FormatRGBA8888)
	if err != nil {
		return nil, fmt.Errorf("wrapping image pixels: %w", err)
	}
	return b, nil
}
