package style

import (
	"image/color"
	"math"
)

// CanvasParams are the drawing parameters for the frame compositor: concrete
// pixel sizes and premultipliable colors, no strings left to interpret.
type CanvasParams struct {
	FontPx        int
	Bold          bool
	Fill          color.NRGBA
	Stroke        color.NRGBA
	StrokeWidth   int
	Background    color.NRGBA
	HasBackground bool
	Shadow        color.NRGBA
	TextShadow    bool
	PadX          int
	PadY          int
	LineHeight    float64 // multiplier of FontPx
	MaxWidthRatio float64
	Position      Position
	Offset        int
	Transform     TextTransform
}

// canvas path font bounds; the compositor draws at source resolution so very
// large sizes only blur
const (
	minCanvasFontPx = 12
	maxCanvasFontPx = 72
)

// Canvas resolves a spec into drawing parameters for a frame of the given
// height. A zero FontSize picks a resolution-proportional size.
func Canvas(s Spec, frameHeight int) CanvasParams {
	s = s.Clamp()

	fontPx := s.FontSize
	if frameHeight > 0 && frameHeight < 480 {
		// undersized sources: scale rather than overflow the frame
		fontPx = int(math.Round(float64(frameHeight) * 0.06))
	}
	fontPx = clampInt(fontPx, minCanvasFontPx, maxCanvasFontPx)

	offset := s.PositionOffset
	if frameHeight > 0 && offset > frameHeight/2 {
		offset = frameHeight / 2
	}

	return CanvasParams{
		FontPx:        fontPx,
		Bold:          s.Bold,
		Fill:          nrgba(s.TextColor, 1),
		Stroke:        nrgba(s.StrokeColor, 1),
		StrokeWidth:   s.StrokeWidth,
		Background:    nrgba(s.BackgroundColor, float64(s.BackgroundOpacity)/100),
		HasBackground: s.HasBackground,
		Shadow:        color.NRGBA{A: 160},
		TextShadow:    s.TextShadow,
		PadX:          fontPx / 2,
		PadY:          fontPx / 4,
		LineHeight:    float64(s.LineHeightPct) / 100,
		MaxWidthRatio: s.MaxWidthRatio,
		Position:      s.Position,
		Offset:        offset,
		Transform:     s.TextTransform,
	}
}

func nrgba(hex string, opacity float64) color.NRGBA {
	r, g, b, ok := parseHexColor(hex)
	if !ok {
		r, g, b = 0xFF, 0xFF, 0xFF
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return color.NRGBA{
		R: r,
		G: g,
		B: b,
		A: uint8(math.Round(opacity * 255)),
	}
}
