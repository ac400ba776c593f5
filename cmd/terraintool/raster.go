package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Davaakhatan/PromptPlay-sub005/internal/terrain"
)

// WriteHeightmapPNG saves 8-bit grayscale elevation samples as a PNG file.
func WriteHeightmapPNG(path string, samples []uint8, width, height int) error {
	if len(samples) != width*height {
		return fmt.Errorf("sample data size mismatch: expected %d, got %d", width*height, len(samples))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, samples)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// WriteSplatPNG saves one splat map as an RGBA PNG, one blend channel per
// color channel.
func WriteSplatPNG(path string, sm *terrain.SplatMap) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, sm.Width, sm.Height))
	for i, v := range sm.Data {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		img.Pix[i] = uint8(v*255 + 0.5)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// ReadHeightmapPNG loads a PNG file as 8-bit grayscale elevation samples.
// Color images are sampled through the red channel.
func ReadHeightmapPNG(path string) ([]uint8, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding PNG: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if gray, ok := img.(*image.Gray); ok && gray.Stride == width {
		samples := make([]uint8, width*height)
		copy(samples, gray.Pix)
		return samples, width, height, nil
	}

	samples := make([]uint8, 0, width*height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			samples = append(samples, uint8(r>>8))
		}
	}
	return samples, width, height, nil
}
