package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"os"

	"github.com/goesviz/goesviz/pkg/sample"
)

// metersPerInch converts DPI to the PNG pHYs unit (pixels per meter).
const metersPerInch = 0.0254

// ToImage converts a grid to an 8-bit RGBA image, clamping values to [0, 1].
func ToImage(grid *sample.Sample) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			base := (y*grid.Width + x) * sample.Channels
			off := img.PixOffset(x, y)
			img.Pix[off] = clamp8(grid.Data[base])
			img.Pix[off+1] = clamp8(grid.Data[base+1])
			img.Pix[off+2] = clamp8(grid.Data[base+2])
			img.Pix[off+3] = 0xff
		}
	}

	return img
}

func clamp8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}

// WritePNG saves a grid as a lossless PNG with no decoration and the
// configured print resolution stamped into a pHYs chunk.
func WritePNG(path string, grid *sample.Sample, dpi int) error {
	return WriteImagePNG(path, ToImage(grid), dpi)
}

// WriteImagePNG saves any image as a PNG with print resolution metadata.
func WriteImagePNG(path string, img image.Image, dpi int) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	data, err := withPrintResolution(buf.Bytes(), dpi)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // output images are world-readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// withPrintResolution splices a pHYs chunk directly after IHDR. The
// standard encoder does not emit one, and image viewers fall back to
// screen resolution without it.
func withPrintResolution(data []byte, dpi int) ([]byte, error) {
	// Signature (8) + IHDR length/type (8) + payload (13) + CRC (4)
	const ihdrEnd = 33
	if len(data) < ihdrEnd {
		return nil, fmt.Errorf("PNG stream too short to carry IHDR")
	}

	ppm := uint32(float64(dpi)/metersPerInch + 0.5)

	chunk := make([]byte, 21)
	binary.BigEndian.PutUint32(chunk[0:], 9)
	copy(chunk[4:], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:], ppm)
	binary.BigEndian.PutUint32(chunk[12:], ppm)
	chunk[16] = 1 // unit: meter
	binary.BigEndian.PutUint32(chunk[17:], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)

	return out, nil
}
