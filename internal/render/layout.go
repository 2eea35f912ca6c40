package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Rionsanfas/lunaburn/internal/style"
)

// TextLayout measures, wraps, and draws subtitle text for the compositor.
// The compositor draws with the bundled Go fonts; FontFamily selection is a
// filter-graph capability, where libass resolves system fonts.
type TextLayout struct {
	params style.CanvasParams
	face   font.Face
	frameW int
	frameH int

	// wrapped-line cache keyed by raw entry text; entries repeat across many
	// consecutive frames
	cache map[string][]string
}

func NewTextLayout(params style.CanvasParams, frameW, frameH int) (*TextLayout, error) {
	ttf := goregular.TTF
	if params.Bold {
		ttf = gobold.TTF
	}

	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled font: %w", err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(params.FontPx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build font face: %w", err)
	}

	return &TextLayout{
		params: params,
		face:   face,
		frameW: frameW,
		frameH: frameH,
		cache:  make(map[string][]string),
	}, nil
}

func (l *TextLayout) Close() error {
	return l.face.Close()
}

// MeasureString returns the advance width of s in pixels.
func (l *TextLayout) MeasureString(s string) int {
	return font.MeasureString(l.face, s).Ceil()
}

// maxLineWidth is the wrap budget: MaxWidthRatio of the frame minus the
// horizontal box padding on both sides.
func (l *TextLayout) maxLineWidth() int {
	return int(l.params.MaxWidthRatio*float64(l.frameW)) - 2*l.params.PadX
}

// WrapText greedily wraps text to the width budget by incremental
// measurement: append a word, measure, and start a new line when the budget
// is exceeded. Explicit newlines in the input are preserved.
func (l *TextLayout) WrapText(text string) []string {
	if cached, ok := l.cache[text]; ok {
		return cached
	}

	transformed := style.ApplyTransform(text, l.params.Transform)
	budget := l.maxLineWidth()

	var lines []string
	for _, paragraph := range strings.Split(transformed, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if l.MeasureString(candidate) > budget {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}

	l.cache[text] = lines
	return lines
}

// Draw composites the subtitle block for text onto dst. Each line is drawn
// stroke-first then fill so the outline never covers the glyph interior.
func (l *TextLayout) Draw(dst *image.RGBA, text string) {
	lines := l.WrapText(text)
	if len(lines) == 0 {
		return
	}

	lineAdvance := int(float64(l.params.FontPx) * l.params.LineHeight)
	blockHeight := len(lines) * lineAdvance

	var blockTop int
	switch l.params.Position {
	case style.PositionTop:
		blockTop = l.params.Offset
	case style.PositionCenter:
		blockTop = (l.frameH - blockHeight) / 2
	default: // bottom: block's lower edge sits Offset px above the frame edge
		blockTop = l.frameH - l.params.Offset - blockHeight
	}
	if blockTop < 0 {
		blockTop = 0
	}

	if l.params.HasBackground {
		l.drawBackground(dst, lines, blockTop, blockHeight)
	}

	ascent := l.face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		width := l.MeasureString(line)
		x := (l.frameW - width) / 2
		y := blockTop + i*lineAdvance + ascent

		if l.params.TextShadow {
			shadowOffset := l.params.FontPx / 16
			if shadowOffset < 2 {
				shadowOffset = 2
			}
			l.drawString(dst, line, x+shadowOffset, y+shadowOffset, l.params.Shadow)
		}

		if l.params.StrokeWidth > 0 {
			sw := l.params.StrokeWidth
			for dx := -sw; dx <= sw; dx++ {
				for dy := -sw; dy <= sw; dy++ {
					if dx == 0 && dy == 0 {
						continue
					}
					l.drawString(dst, line, x+dx, y+dy, l.params.Stroke)
				}
			}
		}

		l.drawString(dst, line, x, y, l.params.Fill)
	}
}

// drawBackground paints a translucent box sized to the widest line plus
// padding, centered horizontally.
func (l *TextLayout) drawBackground(
	dst *image.RGBA,
	lines []string,
	blockTop, blockHeight int,
) {
	widest := 0
	for _, line := range lines {
		if w := l.MeasureString(line); w > widest {
			widest = w
		}
	}

	boxWidth := widest + 2*l.params.PadX
	x0 := (l.frameW - boxWidth) / 2
	rect := image.Rect(
		x0,
		blockTop-l.params.PadY,
		x0+boxWidth,
		blockTop+blockHeight+l.params.PadY,
	)
	rect = rect.Intersect(dst.Bounds())

	draw.Draw(dst, rect, image.NewUniform(l.params.Background), image.Point{}, draw.Over)
}

func (l *TextLayout) drawString(dst *image.RGBA, s string, x, y int, col color.Color) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: l.face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
}
