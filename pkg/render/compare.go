package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // comparison inputs may be JPEG
	"os"
)

// Layout selects the comparison composition
type Layout string

const (
	// LayoutHorizontal places all images in one row
	LayoutHorizontal Layout = "horizontal"
	// LayoutGrid places exactly four images in a 2x2 grid
	LayoutGrid Layout = "grid"
)

// Static errors for comparison composition
var (
	ErrNoImages      = errors.New("at least two images are required")
	ErrGridNeedsFour = errors.New("grid layout requires exactly four images")
	ErrUnknownLayout = errors.New("unknown comparison layout")
)

// LoadImage reads a PNG or JPEG from disk.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return img, nil
}

// Compose concatenates images side by side. Horizontal layouts match all
// images to the smallest height preserving aspect ratio; grid layouts
// match everything to the smallest width and height.
func Compose(images []image.Image, layout Layout) (image.Image, error) {
	if len(images) < 2 {
		return nil, ErrNoImages
	}

	switch layout {
	case LayoutHorizontal:
		return composeHorizontal(images), nil
	case LayoutGrid:
		if len(images) != 4 {
			return nil, ErrGridNeedsFour
		}
		return composeGrid(images), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
}

func composeHorizontal(images []image.Image) image.Image {
	minHeight := images[0].Bounds().Dy()
	for _, img := range images[1:] {
		if h := img.Bounds().Dy(); h < minHeight {
			minHeight = h
		}
	}

	resized := make([]image.Image, len(images))
	totalWidth := 0
	for i, img := range images {
		b := img.Bounds()
		width := b.Dx() * minHeight / b.Dy()
		resized[i] = resize(img, width, minHeight)
		totalWidth += width
	}

	out := image.NewNRGBA(image.Rect(0, 0, totalWidth, minHeight))
	x := 0
	for _, img := range resized {
		b := img.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), minHeight), img, b.Min, draw.Src)
		x += b.Dx()
	}

	return out
}

func composeGrid(images []image.Image) image.Image {
	minW := images[0].Bounds().Dx()
	minH := images[0].Bounds().Dy()
	for _, img := range images[1:] {
		if w := img.Bounds().Dx(); w < minW {
			minW = w
		}
		if h := img.Bounds().Dy(); h < minH {
			minH = h
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, minW*2, minH*2))
	for i, img := range images {
		cell := resize(img, minW, minH)
		x := (i % 2) * minW
		y := (i / 2) * minH
		draw.Draw(out, image.Rect(x, y, x+minW, y+minH), cell, cell.Bounds().Min, draw.Src)
	}

	return out
}

// resize performs nearest-neighbour scaling, which is adequate for
// side-by-side inspection images.
func resize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		sy := b.Min.Y + y*b.Dy()/height
		for x := 0; x < width; x++ {
			sx := b.Min.X + x*b.Dx()/width
			out.Set(x, y, img.At(sx, sy))
		}
	}

	return out
}
