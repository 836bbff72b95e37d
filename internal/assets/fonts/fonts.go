// Package fonts provides the bundled Go Bold faces used for board images.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

const (
	captionSize = 18
	dpi         = 72
)

var (
	parseOnce sync.Once
	parsed    *opentype.Font
	parseErr  error

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

func boldFont() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(gobold.TTF)
		if parseErr != nil {
			parseErr = fmt.Errorf("parse gobold: %w", parseErr)
		}
	})
	return parsed, parseErr
}

// CaptionFace is the face for HUD text and coordinate labels.
func CaptionFace() (font.Face, error) {
	return Face(captionSize)
}

// NumberFace scales the tile number face to a cell of cellSize pixels.
func NumberFace(cellSize int) (font.Face, error) {
	size := float64(cellSize) * 0.42
	if size < 12 {
		size = 12
	}
	return Face(size)
}

// Face returns a cached face at the given point size.
func Face(size float64) (font.Face, error) {
	f, err := boldFont()
	if err != nil {
		return nil, err
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %.1f: %w", size, err)
	}
	faces[size] = face
	return face, nil
}
