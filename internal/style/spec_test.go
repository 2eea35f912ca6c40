package style

import (
	"testing"
)

func TestClampDefaultsIsNoOp(t *testing.T) {
	def := Default()
	if def.Clamp() != def {
		t.Error("Clamp(Default()) should not change anything")
	}
}

func TestClampIsIdempotent(t *testing.T) {
	specs := []Spec{
		{},
		{FontSize: 500, StrokeWidth: -3, BackgroundOpacity: 250},
		{TextColor: "red", Position: "under", MaxWidthRatio: 90},
		{FontFamily: "  ", LineHeightPct: 5000, PositionOffset: -10},
		Default(),
	}

	for i, s := range specs {
		once := s.Clamp()
		twice := once.Clamp()
		if once != twice {
			t.Errorf("spec %d: Clamp not idempotent:\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestClampBounds(t *testing.T) {
	tests := []struct {
		name  string
		in    Spec
		check func(t *testing.T, s Spec)
	}{
		{
			name: "zero font size gets default",
			in:   Spec{},
			check: func(t *testing.T, s Spec) {
				if s.FontSize != Default().FontSize {
					t.Errorf("FontSize = %d", s.FontSize)
				}
			},
		},
		{
			name: "oversized font clamps to max",
			in:   Spec{FontSize: 500},
			check: func(t *testing.T, s Spec) {
				if s.FontSize != MaxFontSize {
					t.Errorf("FontSize = %d, want %d", s.FontSize, MaxFontSize)
				}
			},
		},
		{
			name: "undersized font clamps to min",
			in:   Spec{FontSize: 3},
			check: func(t *testing.T, s Spec) {
				if s.FontSize != MinFontSize {
					t.Errorf("FontSize = %d, want %d", s.FontSize, MinFontSize)
				}
			},
		},
		{
			name: "invalid colors fall back to defaults",
			in:   Spec{TextColor: "yellow", StrokeColor: "#12", BackgroundColor: "#GGGGGG"},
			check: func(t *testing.T, s Spec) {
				def := Default()
				if s.TextColor != def.TextColor ||
					s.StrokeColor != def.StrokeColor ||
					s.BackgroundColor != def.BackgroundColor {
					t.Errorf("colors = %s %s %s", s.TextColor, s.StrokeColor, s.BackgroundColor)
				}
			},
		},
		{
			name: "valid colors survive",
			in:   Spec{TextColor: "#FFD700", StrokeColor: "#1a2b3c"},
			check: func(t *testing.T, s Spec) {
				if s.TextColor != "#FFD700" || s.StrokeColor != "#1a2b3c" {
					t.Errorf("colors = %s %s", s.TextColor, s.StrokeColor)
				}
			},
		},
		{
			name: "percent width converts to ratio",
			in:   Spec{MaxWidthRatio: 80},
			check: func(t *testing.T, s Spec) {
				if s.MaxWidthRatio != 0.8 {
					t.Errorf("MaxWidthRatio = %v, want 0.8", s.MaxWidthRatio)
				}
			},
		},
		{
			name: "tiny ratio clamps to floor",
			in:   Spec{MaxWidthRatio: 0.05},
			check: func(t *testing.T, s Spec) {
				if s.MaxWidthRatio != minWidthRatio {
					t.Errorf("MaxWidthRatio = %v, want %v", s.MaxWidthRatio, minWidthRatio)
				}
			},
		},
		{
			name: "out of range ratio falls back to default",
			in:   Spec{MaxWidthRatio: 250},
			check: func(t *testing.T, s Spec) {
				if s.MaxWidthRatio != Default().MaxWidthRatio {
					t.Errorf("MaxWidthRatio = %v", s.MaxWidthRatio)
				}
			},
		},
		{
			name: "unknown position falls back to bottom",
			in:   Spec{Position: "underneath"},
			check: func(t *testing.T, s Spec) {
				if s.Position != PositionBottom {
					t.Errorf("Position = %v", s.Position)
				}
			},
		},
		{
			name: "unknown transform falls back to none",
			in:   Spec{TextTransform: "shouty"},
			check: func(t *testing.T, s Spec) {
				if s.TextTransform != TransformNone {
					t.Errorf("TextTransform = %v", s.TextTransform)
				}
			},
		},
		{
			name: "negative stroke and offset clamp to zero",
			in:   Spec{StrokeWidth: -4, PositionOffset: -100},
			check: func(t *testing.T, s Spec) {
				if s.StrokeWidth != 0 || s.PositionOffset != 0 {
					t.Errorf("stroke %d offset %d", s.StrokeWidth, s.PositionOffset)
				}
			},
		},
		{
			name: "line height bounds",
			in:   Spec{LineHeightPct: 10},
			check: func(t *testing.T, s Spec) {
				if s.LineHeightPct != minLineHeightPct {
					t.Errorf("LineHeightPct = %d", s.LineHeightPct)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.in.Clamp())
		})
	}
}

func TestApplyTransform(t *testing.T) {
	tests := []struct {
		transform TextTransform
		in, want  string
	}{
		{TransformNone, "Hello World", "Hello World"},
		{TransformUppercase, "Hello world", "HELLO WORLD"},
		{TransformLowercase, "Hello WORLD", "hello world"},
		{TransformCapitalize, "hello world again", "Hello World Again"},
		{TransformCapitalize, "multi\nline text", "Multi\nLine Text"},
		{TextTransform("bogus"), "unchanged", "unchanged"},
	}

	for _, tt := range tests {
		if got := ApplyTransform(tt.in, tt.transform); got != tt.want {
			t.Errorf("ApplyTransform(%q, %v) = %q, want %q", tt.in, tt.transform, got, tt.want)
		}
	}
}
