package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	fontassets "github.com/park285/Cheese-NumberOrder-bot/internal/assets/fonts"
	"github.com/park285/Cheese-NumberOrder-bot/internal/puzzle"
)

// Options overrides the HUD texts. Empty fields are derived from the snapshot.
type Options struct {
	Header string
	Status string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, snap puzzle.Snapshot, opts Options) ([]byte, error)
}

type pngBoardRenderer struct {
	// font faces are not safe for concurrent glyph lookups
	textMu sync.Mutex
}

func NewBoardRenderer() BoardRenderer {
	return &pngBoardRenderer{}
}

const (
	boardPixels   = 360
	sideMargin    = 40
	topMargin     = 112
	bottomMargin  = 40
	titleHeight   = 40
	statusHeight  = 32
	panelGap      = 12
	gapToBoard    = 18
	panelRadius   = 12
	panelPaddingX = 24
	titleMinWidth = 200
	shadowOffsetY = 5
	tileInset     = 3
)

var (
	backgroundColor   = color.RGBA{R: 250, G: 247, B: 240, A: 255}
	boardShadowColor  = color.NRGBA{A: 50}
	hudPanelColor     = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudStatusColor    = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor    = color.NRGBA{A: 50}
	hudTextPrimary    = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTextSecondary  = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	numberTextColor   = color.NRGBA{R: 40, G: 42, B: 54, A: 255}
	coordinateColor   = color.NRGBA{R: 120, G: 112, B: 96, A: 255}
	statusWonColor    = color.NRGBA{R: 46, G: 139, B: 87, A: 250}
	statusFailedColor = color.NRGBA{R: 192, G: 57, B: 43, A: 250}
)

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, snap puzzle.Snapshot, opts Options) ([]byte, error) {
	size := snap.Mode.Size
	if size <= 0 || len(snap.Cells) != size*size {
		return nil, fmt.Errorf("snapshot has %d cells for size %d", len(snap.Cells), size)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cellSize := boardPixels / size
	boardSize := cellSize * size
	origin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize)

	img := image.NewRGBA(image.Rect(0, 0, boardSize+sideMargin*2, boardSize+topMargin+bottomMargin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)
	drawRoundedPanel(img, boardRect.Add(image.Pt(3, 6)).Inset(-4), panelRadius, boardShadowColor)

	if err := drawTiles(img, snap.Cells, cellSize, origin); err != nil {
		return nil, err
	}

	r.textMu.Lock()
	err := r.drawText(img, snap, opts, boardRect, cellSize)
	r.textMu.Unlock()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pngBoardRenderer) drawText(img *image.RGBA, snap puzzle.Snapshot, opts Options, boardRect image.Rectangle, cellSize int) error {
	caption, err := fontassets.CaptionFace()
	if err != nil {
		return err
	}
	numbers, err := fontassets.NumberFace(cellSize)
	if err != nil {
		return err
	}
	drawNumbers(img, numbers, snap.Cells, cellSize, boardRect.Min)
	drawCoordinates(img, caption, snap.Mode.Size, cellSize, boardRect.Min)

	header := strings.TrimSpace(opts.Header)
	if header == "" {
		header = HeaderText(snap)
	}
	status := strings.TrimSpace(opts.Status)
	if status == "" {
		status = StatusText(snap)
	}
	drawHUD(img, caption, header, status, snap.Phase, boardRect)
	return nil
}

// HeaderText is the default HUD title, e.g. "LEVEL 1  4x4".
func HeaderText(snap puzzle.Snapshot) string {
	return fmt.Sprintf("LEVEL %d  %dx%d", int(snap.Mode.Level), snap.Mode.Size, snap.Mode.Size)
}

// StatusText is the default HUD status line. The HUD font has no Hangul.
func StatusText(snap puzzle.Snapshot) string {
	progress := strconv.Itoa(snap.Progress) + "/" + strconv.Itoa(snap.Total)
	switch snap.Phase {
	case puzzle.PhaseActive:
		return "PLAY " + progress
	case puzzle.PhaseWon:
		return "CLEAR " + progress
	case puzzle.PhaseFailed:
		return "FAIL " + progress
	default:
		return "MEMORIZE " + strconv.Itoa(snap.Total)
	}
}

func drawTiles(dst *image.RGBA, cells []puzzle.CellView, cellSize int, origin image.Point) error {
	tileSize := cellSize - tileInset*2
	for _, c := range cells {
		tile, err := renderTile(tileFor(c), tileSize)
		if err != nil {
			return err
		}
		rect := cellRect(c, cellSize, origin).Inset(tileInset)
		imagedraw.Draw(dst, rect, tile, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawNumbers(dst *image.RGBA, face font.Face, cells []puzzle.CellView, cellSize int, origin image.Point) {
	drawer := &font.Drawer{Dst: dst, Face: face}
	for _, c := range cells {
		if !c.Revealed || c.Empty {
			continue
		}
		drawCenteredString(drawer, cellRect(c, cellSize, origin), strconv.Itoa(c.Number), numberTextColor)
	}
}

func drawCoordinates(dst *image.RGBA, face font.Face, size, cellSize int, origin image.Point) {
	drawer := &font.Drawer{Dst: dst, Face: face, Src: image.NewUniform(coordinateColor)}
	ascent := face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + size*cellSize
	for i := 0; i < size; i++ {
		center := i*cellSize + cellSize/2
		drawCenteredText(drawer, puzzle.RowLabel(i), origin.X-sideMargin/2, origin.Y+center+ascent/2)
		drawCenteredText(drawer, puzzle.ColumnLabel(i), origin.X+center, boardEndY+ascent+4)
	}
}

func drawHUD(img *image.RGBA, face font.Face, title, status string, phase puzzle.Phase, boardRect image.Rectangle) {
	drawer := &font.Drawer{Dst: img, Face: face}

	statusBottom := boardRect.Min.Y - gapToBoard
	statusTop := statusBottom - statusHeight
	titleBottom := statusTop - panelGap
	titleTop := titleBottom - titleHeight

	titleWidth := max(titleMinWidth, drawer.MeasureString(title).Round()+panelPaddingX*2)
	titleWidth = min(titleWidth, boardRect.Dx())
	statusWidth := min(drawer.MeasureString(status).Round()+panelPaddingX*2, boardRect.Dx())

	titleLeft := boardRect.Min.X + (boardRect.Dx()-titleWidth)/2
	titleRect := image.Rect(titleLeft, titleTop, titleLeft+titleWidth, titleBottom)
	statusLeft := boardRect.Min.X + (boardRect.Dx()-statusWidth)/2
	statusRect := image.Rect(statusLeft, statusTop, statusLeft+statusWidth, statusBottom)

	drawRoundedPanel(img, titleRect.Add(image.Pt(0, shadowOffsetY)), panelRadius, hudShadowColor)
	drawRoundedPanel(img, statusRect.Add(image.Pt(0, shadowOffsetY)), panelRadius, hudShadowColor)
	drawRoundedPanel(img, titleRect, panelRadius, hudPanelColor)
	drawRoundedPanel(img, statusRect, panelRadius, statusPanelColor(phase))

	drawCenteredString(drawer, titleRect, truncateWithEllipsis(face, title, titleRect.Dx()-panelPaddingX), hudTextPrimary)
	drawCenteredString(drawer, statusRect, truncateWithEllipsis(face, status, statusRect.Dx()-panelPaddingX), hudTextSecondary)
}

func statusPanelColor(phase puzzle.Phase) color.Color {
	switch phase {
	case puzzle.PhaseWon:
		return statusWonColor
	case puzzle.PhaseFailed:
		return statusFailedColor
	default:
		return hudStatusColor
	}
}

func cellRect(c puzzle.CellView, cellSize int, origin image.Point) image.Rectangle {
	x := origin.X + c.Col*cellSize
	y := origin.Y + c.Row*cellSize
	return image.Rect(x, y, x+cellSize, y+cellSize)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(text).Round() <= maxWidth {
		return text
	}
	const ellipsis = "..."
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	radius = max(0, min(radius, rect.Dx()/2, rect.Dy()/2))
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	// center band, two side bands and four quarter discs; no pixel is
	// painted twice so translucent fills stay even
	vertical := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	imagedraw.Draw(img, vertical, fill, image.Point{}, imagedraw.Over)
	left := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	right := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	imagedraw.Draw(img, left, fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, right, fill, image.Point{}, imagedraw.Over)

	corners := []struct {
		center image.Point
		dx, dy int
	}{
		{image.Pt(rect.Min.X+radius, rect.Min.Y+radius), -1, -1},
		{image.Pt(rect.Max.X-radius-1, rect.Min.Y+radius), 1, -1},
		{image.Pt(rect.Min.X+radius, rect.Max.Y-radius-1), -1, 1},
		{image.Pt(rect.Max.X-radius-1, rect.Max.Y-radius-1), 1, 1},
	}
	for _, c := range corners {
		drawQuarterDisc(img, c.center, radius, c.dx, c.dy, clr)
	}
}

// drawQuarterDisc fills the quadrant of a disc selected by the signs dx, dy.
func drawQuarterDisc(img *image.RGBA, center image.Point, radius, dx, dy int, clr color.Color) {
	rSquared := radius * radius
	for y := 0; y <= radius; y++ {
		for x := 0; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			// the axis row and column belong to the rectangles
			if x == 0 || y == 0 {
				continue
			}
			blendPixel(img, center.X+x*dx, center.Y+y*dy, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	inv := 65535 - sa
	// premultiplied source-over
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((sr + uint32(dst.R)*0x101*inv/65535) >> 8),
		G: uint8((sg + uint32(dst.G)*0x101*inv/65535) >> 8),
		B: uint8((sb + uint32(dst.B)*0x101*inv/65535) >> 8),
		A: uint8((sa + uint32(dst.A)*0x101*inv/65535) >> 8),
	})
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if drawer == nil || text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := max(rect.Min.X, rect.Min.X+(rect.Dx()-width)/2)
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
