package subtitle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SubRip interchange format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format. StyleLine is a complete "Style: ..." line
// for the [V4+ Styles] section; when empty a plain default style is used.
// PlayResX/PlayResY anchor the stylesheet's coordinate space to the frame the
// subtitles will be burned into.
type ASSWriter struct {
	Title     string
	StyleLine string
	PlayResX  int
	PlayResY  int
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{Title: "lunaburn subtitles"}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Write encodes entries as an SRT file. Output is deterministic: entries are
// stably sorted by start time and reindexed from 1, so the same timeline
// always produces the same bytes.
func (w *SRTWriter) Write(entries []Entry, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create SRT file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return EncodeSRT(entries, file)
}

// EncodeSRT writes the SRT interchange format to w.
func EncodeSRT(entries []Entry, w io.Writer) error {
	var sb strings.Builder
	for i, entry := range SortByStart(entries) {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(entry.StartTime),
			formatSRTTime(entry.EndTime)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write SRT data: %w", err)
	}
	return nil
}

// Write encodes entries as a WebVTT file.
func (w *VTTWriter) Write(entries []Entry, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for i, entry := range SortByStart(entries) {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(entry.StartTime),
			formatVTTTime(entry.EndTime)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// Write encodes entries as an ASS file with a single uniform style, so one
// documented style applies to every dialogue line without per-frame
// recomputation.
func (w *ASSWriter) Write(entries []Entry, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	if w.Title != "" {
		sb.WriteString(fmt.Sprintf("Title: %s\n", w.Title))
	}
	sb.WriteString("ScriptType: v4.00+\n")
	if w.PlayResX > 0 && w.PlayResY > 0 {
		sb.WriteString(fmt.Sprintf("PlayResX: %d\n", w.PlayResX))
		sb.WriteString(fmt.Sprintf("PlayResY: %d\n", w.PlayResY))
	}
	sb.WriteString("WrapStyle: 0\n")
	sb.WriteString("ScaledBorderAndShadow: yes\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	styleLine := w.StyleLine
	if styleLine == "" {
		styleLine = "Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,0,2,10,10,10,1"
	}
	sb.WriteString(styleLine)
	sb.WriteString("\n\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, entry := range SortByStart(entries) {
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTime(entry.StartTime),
			formatASSTime(entry.EndTime),
			EscapeASSText(entry.Text)))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// Milliseconds are truncated, not rounded: 999.5ms encodes as 999. Parsing is
// exact at millisecond resolution, so encode/decode round-trips are lossless
// for millisecond-resolution timelines.
func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func formatASSTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

// EscapeASSText makes arbitrary timeline text safe inside a Dialogue line.
// Braces would otherwise open override tags and break the event.
func EscapeASSText(text string) string {
	text = strings.ReplaceAll(text, "{", "(")
	text = strings.ReplaceAll(text, "}", ")")
	text = strings.ReplaceAll(text, "\n", "\\N")
	return text
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// Open parses a subtitle file into timeline entries, dispatching on extension.
func Open(path string) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return ParseSRT(path)
	case ".vtt":
		return ParseVTT(path)
	default:
		return nil, fmt.Errorf(
			"unsupported subtitle format: %s",
			filepath.Ext(path),
		)
	}
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
