package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

//go:embed assets/tiles/*.svg
var tileFiles embed.FS

type tileKind string

const (
	tileHidden   tileKind = "hidden"
	tileRevealed tileKind = "revealed"
	tileCorrect  tileKind = "correct"
	tileWrong    tileKind = "wrong"
	tileEmpty    tileKind = "empty"
)

// tileFor picks the artwork for a cell. Hidden cells look alike whether or
// not they hold a number.
func tileFor(c puzzle.CellView) tileKind {
	switch {
	case !c.Revealed:
		return tileHidden
	case c.Empty:
		return tileEmpty
	case c.Mark == puzzle.MarkCorrect:
		return tileCorrect
	case c.Mark == puzzle.MarkWrong:
		return tileWrong
	default:
		return tileRevealed
	}
}

type tileCacheKey struct {
	kind tileKind
	size int
}

var (
	tileCache   = map[tileCacheKey]image.Image{}
	tileCacheMu sync.RWMutex
)

func renderTile(kind tileKind, size int) (image.Image, error) {
	key := tileCacheKey{kind: kind, size: size}

	tileCacheMu.RLock()
	img, ok := tileCache[key]
	tileCacheMu.RUnlock()
	if ok {
		return img, nil
	}

	name := fmt.Sprintf("assets/tiles/%s.svg", kind)
	data, err := tileFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read tile asset %s: %w", name, err)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse tile svg %s: %w", kind, err)
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	tileCacheMu.Lock()
	tileCache[key] = rgba
	tileCacheMu.Unlock()
	return rgba, nil
}
