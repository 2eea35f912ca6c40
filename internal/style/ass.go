package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ASS colors are &HAABBGGRR: alpha first, then the RGB channels reversed.
// Alpha is inverted relative to CSS opacity (00 = opaque, FF = transparent).

// ASSColor translates a #RRGGBB color plus a 0-1 opacity fraction into the
// &HAABBGGRR code the subtitles filter expects. The alpha byte is
// round((1-opacity)*255). Invalid hex falls back to opaque white.
func ASSColor(hex string, opacity float64) string {
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
	alpha := uint8(math.Round((1 - opacity) * 255))
	return fmt.Sprintf("&H%02X%02X%02X%02X", alpha, b, g, r)
}

func parseHexColor(hex string) (r, g, b uint8, ok bool) {
	if !hexColorRegex.MatchString(hex) {
		return 0, 0, 0, false
	}
	rv, _ := strconv.ParseUint(hex[1:3], 16, 8)
	gv, _ := strconv.ParseUint(hex[3:5], 16, 8)
	bv, _ := strconv.ParseUint(hex[5:7], 16, 8)
	return uint8(rv), uint8(gv), uint8(bv), true
}

// numpad alignment codes: 2 bottom-center, 8 top-center, 5 middle-center
func alignmentCode(p Position) int {
	switch p {
	case PositionTop:
		return 8
	case PositionCenter:
		return 5
	default:
		return 2
	}
}

// ScaledFontSize derives a resolution-proportional font size (about 4.5% of
// frame height) so subtitles read the same from 480p through 4K.
func ScaledFontSize(frameHeight int) int {
	size := int(math.Round(float64(frameHeight) * 0.045))
	upper := int(math.Round(float64(frameHeight) * 0.07))
	if upper < 28 {
		upper = 28
	}
	if size < 16 {
		size = 16
	}
	if size > upper {
		size = upper
	}
	return size
}

// ScaledMarginV derives the vertical margin (about 5% of frame height).
func ScaledMarginV(frameHeight int) int {
	margin := int(math.Round(float64(frameHeight) * 0.05))
	upper := frameHeight / 10
	if margin < 10 {
		margin = 10
	}
	if upper >= 10 && margin > upper {
		margin = upper
	}
	return margin
}

// StyleLine builds the single "Style:" line for a stylesheet-based subtitle
// file targeting a frame of the given dimensions. One uniform style covers
// every dialogue line, so the filter never recomputes style per frame.
func StyleLine(s Spec, frameWidth, frameHeight int) string {
	s = s.Clamp()

	fontSize := s.FontSize
	if frameHeight > 0 {
		// prefer a resolution-proportional size; the user's px value was
		// tuned against the editing preview, not the source frame
		fontSize = ScaledFontSize(frameHeight)
	}
	fontSize = clampInt(fontSize, 16, MaxFontSize)

	marginV := s.PositionOffset
	if marginV == 0 && frameHeight > 0 {
		marginV = ScaledMarginV(frameHeight)
	}

	// horizontal margins enforce the wrap budget: libass wraps dialogue at
	// PlayResX minus both margins
	marginLR := 10
	if frameWidth > 0 {
		marginLR = int(math.Round(float64(frameWidth) * (1 - s.MaxWidthRatio) / 2))
		if marginLR < 10 {
			marginLR = 10
		}
	}

	bold := 0
	if s.Bold {
		bold = -1
	}

	borderStyle := 1 // outline + shadow
	backColor := ASSColor(s.StrokeColor, 1)
	if s.HasBackground {
		borderStyle = 3 // opaque box
		backColor = ASSColor(s.BackgroundColor, float64(s.BackgroundOpacity)/100)
	}

	shadow := 0
	if s.TextShadow {
		shadow = 1
	}

	return fmt.Sprintf(
		"Style: Default,%s,%d,%s,%s,%s,%s,%d,0,0,0,100,100,0,0,%d,%d,%d,%d,%d,%d,%d,1",
		sanitizeFontName(s.FontFamily),
		fontSize,
		ASSColor(s.TextColor, 1),
		ASSColor(s.TextColor, 1),
		ASSColor(s.StrokeColor, 1),
		backColor,
		bold,
		borderStyle,
		s.StrokeWidth,
		shadow,
		alignmentCode(s.Position),
		marginLR,
		marginLR,
		marginV,
	)
}

// ForceStyle builds the inline force_style parameter list used when burning a
// plain SRT file without a stylesheet.
func ForceStyle(s Spec, frameHeight int) string {
	s = s.Clamp()

	fontSize := s.FontSize
	if frameHeight > 0 {
		fontSize = ScaledFontSize(frameHeight)
	}
	fontSize = clampInt(fontSize, 16, MaxFontSize)

	marginV := s.PositionOffset
	if marginV == 0 && frameHeight > 0 {
		marginV = ScaledMarginV(frameHeight)
	}

	bold := 0
	if s.Bold {
		bold = -1
	}

	parts := []string{
		"FontName=" + sanitizeFontName(s.FontFamily),
		fmt.Sprintf("FontSize=%d", fontSize),
		"PrimaryColour=" + ASSColor(s.TextColor, 1),
		"OutlineColour=" + ASSColor(s.StrokeColor, 1),
		fmt.Sprintf("Bold=%d", bold),
		fmt.Sprintf("Outline=%d", s.StrokeWidth),
		fmt.Sprintf("Alignment=%d", alignmentCode(s.Position)),
		fmt.Sprintf("MarginV=%d", marginV),
	}

	if s.HasBackground {
		parts = append(parts,
			"BorderStyle=3",
			"BackColour="+ASSColor(
				s.BackgroundColor,
				float64(s.BackgroundOpacity)/100,
			),
		)
	}
	if s.TextShadow {
		parts = append(parts, "Shadow=1")
	}

	return strings.Join(parts, ",")
}

// sanitizeFontName strips characters that would terminate or corrupt the
// style string inside a filter argument
func sanitizeFontName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ',', ';', ':', '\'', '"', '\\', '[', ']', '=':
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		name = Default().FontFamily
	}
	return name
}
