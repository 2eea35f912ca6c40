package style

import (
	"regexp"
	"strings"
	"unicode"
)

// vertical anchor for the subtitle block
type Position string

const (
	PositionBottom Position = "bottom"
	PositionTop    Position = "top"
	PositionCenter Position = "center"
)

// case transformation applied to subtitle text before layout
type TextTransform string

const (
	TransformNone       TextTransform = "none"
	TransformUppercase  TextTransform = "uppercase"
	TransformLowercase  TextTransform = "lowercase"
	TransformCapitalize TextTransform = "capitalize"
)

// Spec is the flat record of presentation attributes for subtitle rendering.
// A Spec is safe to hand to a renderer only after Clamp; specs built from
// untrusted input go through ParseAI which clamps on the way out.
type Spec struct {
	FontFamily        string        `json:"fontFamily"`
	FontSize          int           `json:"fontSize"`
	Bold              bool          `json:"bold"`
	TextColor         string        `json:"textColor"`
	StrokeColor       string        `json:"strokeColor"`
	StrokeWidth       int           `json:"strokeWidth"`
	BackgroundColor   string        `json:"backgroundColor"`
	BackgroundOpacity int           `json:"backgroundOpacity"` // 0-100
	HasBackground     bool          `json:"hasBackground"`
	TextShadow        bool          `json:"textShadow"`
	Position          Position      `json:"position"`
	PositionOffset    int           `json:"positionOffset"` // px from the anchored edge
	MaxWidthRatio     float64       `json:"maxWidthRatio"`  // 0-1, or a percentage
	LineHeightPct     int           `json:"lineHeight"`     // percent, 100 = font size
	TextTransform     TextTransform `json:"textTransform"`
	Animations        bool          `json:"animations"` // no-op for static export
}

// numeric bounds; every field is clamped independently so one bad value never
// poisons the rest of the spec
const (
	MinFontSize = 12
	MaxFontSize = 96

	maxStrokeWidth    = 10
	maxPositionOffset = 300
	minWidthRatio     = 0.2
	minLineHeightPct  = 80
	maxLineHeightPct  = 200
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Default returns the documented fallback spec. It is also what every
// unparseable style input resolves to.
func Default() Spec {
	return Spec{
		FontFamily:        "Arial",
		FontSize:          32,
		Bold:              true,
		TextColor:         "#FFFFFF",
		StrokeColor:       "#000000",
		StrokeWidth:       2,
		BackgroundColor:   "#000000",
		BackgroundOpacity: 50,
		HasBackground:     false,
		TextShadow:        false,
		Position:          PositionBottom,
		PositionOffset:    48,
		MaxWidthRatio:     0.9,
		LineHeightPct:     120,
		TextTransform:     TransformNone,
	}
}

// Clamp validates and bounds every field, reverting invalid values to the
// documented defaults. Clamping an already-clamped spec is a no-op, which is
// what makes the resolve step safe to run at every boundary.
func (s Spec) Clamp() Spec {
	def := Default()

	if strings.TrimSpace(s.FontFamily) == "" {
		s.FontFamily = def.FontFamily
	}

	if s.FontSize == 0 {
		s.FontSize = def.FontSize
	}
	s.FontSize = clampInt(s.FontSize, MinFontSize, MaxFontSize)

	if !hexColorRegex.MatchString(s.TextColor) {
		s.TextColor = def.TextColor
	}
	if !hexColorRegex.MatchString(s.StrokeColor) {
		s.StrokeColor = def.StrokeColor
	}
	if !hexColorRegex.MatchString(s.BackgroundColor) {
		s.BackgroundColor = def.BackgroundColor
	}

	s.StrokeWidth = clampInt(s.StrokeWidth, 0, maxStrokeWidth)
	s.BackgroundOpacity = clampInt(s.BackgroundOpacity, 0, 100)
	s.PositionOffset = clampInt(s.PositionOffset, 0, maxPositionOffset)

	switch s.Position {
	case PositionBottom, PositionTop, PositionCenter:
	default:
		s.Position = def.Position
	}

	switch s.TextTransform {
	case TransformNone, TransformUppercase, TransformLowercase,
		TransformCapitalize:
	default:
		s.TextTransform = def.TextTransform
	}

	// accept a percentage where a 0-1 ratio is expected
	if s.MaxWidthRatio > 1 && s.MaxWidthRatio <= 100 {
		s.MaxWidthRatio = s.MaxWidthRatio / 100
	}
	if s.MaxWidthRatio <= 0 || s.MaxWidthRatio > 1 {
		s.MaxWidthRatio = def.MaxWidthRatio
	}
	if s.MaxWidthRatio < minWidthRatio {
		s.MaxWidthRatio = minWidthRatio
	}

	if s.LineHeightPct == 0 {
		s.LineHeightPct = def.LineHeightPct
	}
	s.LineHeightPct = clampInt(s.LineHeightPct, minLineHeightPct, maxLineHeightPct)

	return s
}

// TransformText applies the spec's case transformation.
func (s Spec) TransformText(text string) string {
	return ApplyTransform(text, s.TextTransform)
}

// ApplyTransform applies a case transformation to text.
func ApplyTransform(text string, t TextTransform) string {
	switch t {
	case TransformUppercase:
		return strings.ToUpper(text)
	case TransformLowercase:
		return strings.ToLower(text)
	case TransformCapitalize:
		return capitalizeWords(text)
	default:
		return text
	}
}

func capitalizeWords(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	startOfWord := true
	for _, r := range text {
		if unicode.IsSpace(r) {
			startOfWord = true
			sb.WriteRune(r)
			continue
		}
		if startOfWord {
			sb.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
