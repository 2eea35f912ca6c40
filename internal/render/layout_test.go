package render

import (
	"image"
	"strings"
	"testing"

	"github.com/Rionsanfas/lunaburn/internal/style"
)

func newTestLayout(t *testing.T, spec style.Spec, w, h int) *TextLayout {
	t.Helper()
	layout, err := NewTextLayout(style.Canvas(spec, h), w, h)
	if err != nil {
		t.Fatalf("NewTextLayout error: %v", err)
	}
	t.Cleanup(func() { _ = layout.Close() })
	return layout
}

func TestWrapTextRespectsWidthBudget(t *testing.T) {
	spec := style.Default()
	spec.MaxWidthRatio = 0.5
	layout := newTestLayout(t, spec, 1280, 720)

	words := make([]string, 40)
	for i := range words {
		words[i] = "subtitle"
	}
	text := strings.Join(words, " ")

	lines := layout.WrapText(text)
	if len(lines) < 2 {
		t.Fatalf("expected long text to wrap, got %d lines", len(lines))
	}

	budget := layout.maxLineWidth()
	for i, line := range lines {
		if w := layout.MeasureString(line); w > budget {
			t.Errorf("line %d width %d exceeds budget %d: %q", i, w, budget, line)
		}
	}

	// no words lost in wrapping
	rejoined := strings.Fields(strings.Join(lines, " "))
	if len(rejoined) != len(words) {
		t.Errorf("wrapped result has %d words, want %d", len(rejoined), len(words))
	}
}

func TestWrapTextShortLineUnchanged(t *testing.T) {
	layout := newTestLayout(t, style.Default(), 1920, 1080)

	lines := layout.WrapText("short line")
	if len(lines) != 1 || lines[0] != "short line" {
		t.Errorf("WrapText = %v", lines)
	}
}

func TestWrapTextPreservesExplicitNewlines(t *testing.T) {
	layout := newTestLayout(t, style.Default(), 1920, 1080)

	lines := layout.WrapText("first\nsecond")
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Errorf("WrapText = %v", lines)
	}
}

func TestWrapTextAppliesTransform(t *testing.T) {
	spec := style.Default()
	spec.TextTransform = style.TransformUppercase
	layout := newTestLayout(t, spec, 1920, 1080)

	lines := layout.WrapText("make it loud")
	if len(lines) != 1 || lines[0] != "MAKE IT LOUD" {
		t.Errorf("WrapText = %v", lines)
	}
}

func TestWrapTextOverlongWordStillEmitted(t *testing.T) {
	spec := style.Default()
	spec.MaxWidthRatio = 0.2
	layout := newTestLayout(t, spec, 320, 240)

	word := strings.Repeat("w", 80)
	lines := layout.WrapText(word)
	if len(lines) != 1 || lines[0] != word {
		t.Errorf("unbreakable word should pass through, got %v", lines)
	}
}

func TestWrapTextCaches(t *testing.T) {
	layout := newTestLayout(t, style.Default(), 1920, 1080)

	first := layout.WrapText("cache me")
	second := layout.WrapText("cache me")
	if &first[0] != &second[0] {
		t.Error("expected cached slice on repeat lookup")
	}
}

func TestDrawModifiesFrame(t *testing.T) {
	layout := newTestLayout(t, style.Default(), 640, 360)

	frame := image.NewRGBA(image.Rect(0, 0, 640, 360))
	layout.Draw(frame, "burned in")

	changed := false
	for _, px := range frame.Pix {
		if px != 0 {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("Draw left the frame untouched")
	}
}

func TestDrawEmptyTextIsNoOp(t *testing.T) {
	layout := newTestLayout(t, style.Default(), 640, 360)

	frame := image.NewRGBA(image.Rect(0, 0, 640, 360))
	layout.Draw(frame, "   ")

	for i, px := range frame.Pix {
		if px != 0 {
			t.Fatalf("pixel %d modified for empty text", i)
		}
	}
}

func TestDrawBackgroundBox(t *testing.T) {
	spec := style.Default()
	spec.HasBackground = true
	spec.BackgroundColor = "#000000"
	spec.BackgroundOpacity = 100
	spec.Position = style.PositionCenter
	layout := newTestLayout(t, spec, 640, 360)

	frame := image.NewRGBA(image.Rect(0, 0, 640, 360))
	layout.Draw(frame, "boxed")

	// center of the box should carry background alpha
	_, _, _, a := frame.At(320, 180).RGBA()
	if a == 0 {
		t.Error("expected an opaque background box at frame center")
	}
}
