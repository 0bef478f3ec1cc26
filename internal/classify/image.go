package classify

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/nhath/clipkeep/internal/clipboard"
)

// maxThumbnailPixels bounds the source images we are willing to decode.
const maxThumbnailPixels = 40_000_000

// classifyImage never inspects pixel content for secrets.
func (c *Classifier) classifyImage(data []byte) Result {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return Result{Kind: clipboard.Text}
	}
	preview := fmt.Sprintf("%dx%d %s image, %s",
		cfg.Width, cfg.Height, format, humanize.Bytes(uint64(len(data))))

	res := Result{Kind: clipboard.Image, Preview: Truncate(preview, c.PreviewChars)}
	if c.ThumbnailSize > 0 && cfg.Width*cfg.Height <= maxThumbnailPixels {
		res.Thumbnail = thumbnail(data, c.ThumbnailSize)
	}
	return res
}

// thumbnail scales the image to fit a size x size box and encodes it as PNG.
func thumbnail(data []byte, size int) []byte {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), size)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil
	}
	return buf.Bytes()
}

func fit(w, h, size int) (int, int) {
	if w <= size && h <= size {
		return w, h
	}
	if w >= h {
		return size, max(1, h*size/w)
	}
	return max(1, w*size/h), size
}
