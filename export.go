package sumi

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Export flattens the drawing into a standard-library image: the background
// surface composited under the stroke/layer surface. The UI overlay (handles,
// cursor) is deliberately excluded. The engine must have rendered at least
// once; call Tick before exporting.
func (e *Engine) Export() (*image.NRGBA, error) {
	if e.disposed {
		return nil, fmt.Errorf("sumi: export on disposed engine")
	}

	pw, ph := e.pixelSize()
	flat := ebiten.NewImage(pw, ph)
	defer flat.Deallocate()
	flat.DrawImage(e.background.Image(), nil)
	flat.DrawImage(e.display.Image(), nil)

	pixels := make([]byte, 4*pw*ph)
	flat.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img, nil
}

// ExportPNG writes the flattened drawing to a PNG file at the given path.
func (e *Engine) ExportPNG(path string) error {
	img, err := e.Export()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
