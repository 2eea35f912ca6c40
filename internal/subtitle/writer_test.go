package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEncodeSRTIsDeterministic(t *testing.T) {
	// entries deliberately out of order with stale indices
	entries := []Entry{
		{Index: 9, StartTime: 4 * time.Second, EndTime: 5 * time.Second, Text: "later"},
		{Index: 1, StartTime: 1 * time.Second, EndTime: 2 * time.Second, Text: "earlier"},
	}

	var a, b strings.Builder
	if err := EncodeSRT(entries, &a); err != nil {
		t.Fatal(err)
	}
	if err := EncodeSRT(entries, &b); err != nil {
		t.Fatal(err)
	}

	if a.String() != b.String() {
		t.Error("EncodeSRT output differs between runs")
	}

	want := "1\n00:00:01,000 --> 00:00:02,000\nearlier\n\n" +
		"2\n00:00:04,000 --> 00:00:05,000\nlater\n\n"
	if a.String() != want {
		t.Errorf("EncodeSRT output:\n%q\nwant:\n%q", a.String(), want)
	}
}

func TestVTTWriter(t *testing.T) {
	entries := []Entry{
		{Index: 1, StartTime: 1500 * time.Millisecond, EndTime: 3 * time.Second, Text: "vtt text"},
	}

	path := filepath.Join(t.TempDir(), "out.vtt")
	writer := &VTTWriter{}
	if err := writer.Write(entries, path); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "WEBVTT\n") {
		t.Error("missing WEBVTT header")
	}
	if !strings.Contains(out, "00:00:01.500 --> 00:00:03.000") {
		t.Errorf("timestamp line missing:\n%s", out)
	}
}

func TestASSWriter(t *testing.T) {
	entries := []Entry{
		{
			Index:     1,
			StartTime: 1 * time.Second,
			EndTime:   2500 * time.Millisecond,
			Text:      "line one\nline two",
		},
	}

	path := filepath.Join(t.TempDir(), "out.ass")
	writer := &ASSWriter{
		Title:     "test",
		StyleLine: "Style: Default,Arial,48,&H00FFFFFF,&H000000FF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,2,0,2,10,10,50,1",
		PlayResX:  1920,
		PlayResY:  1080,
	}
	if err := writer.Write(entries, path); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"[Script Info]",
		"PlayResX: 1920",
		"PlayResY: 1080",
		"[V4+ Styles]",
		"Style: Default,Arial,48",
		"[Events]",
		"Dialogue: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,line one\\Nline two",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestASSWriterDefaultStyleLine(t *testing.T) {
	entries := []Entry{
		{StartTime: 0, EndTime: time.Second, Text: "x"},
	}

	path := filepath.Join(t.TempDir(), "plain.ass")
	writer := &ASSWriter{}
	if err := writer.Write(entries, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Style: Default,Arial,20") {
		t.Error("expected fallback style line")
	}
	if strings.Contains(string(data), "PlayResX") {
		t.Error("unset PlayRes should not be written")
	}
}

func TestEscapeASSText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a\nb", "a\\Nb"},
		{"{\\pos(1,2)}x", "(\\pos(1,2))x"},
		{"{open only", "(open only"},
	}

	for _, tt := range tests {
		if got := EscapeASSText(tt.in); got != tt.want {
			t.Errorf("EscapeASSText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatASSTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00:00.00"},
		{1*time.Second + 250*time.Millisecond, "0:00:01.25"},
		{1*time.Hour + 2*time.Minute + 3*time.Second + 999*time.Millisecond, "1:02:03.99"},
		{-time.Second, "0:00:00.00"},
	}

	for _, tt := range tests {
		if got := formatASSTime(tt.d); got != tt.want {
			t.Errorf("formatASSTime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestGetFormatFromExtension(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.srt", FormatSRT},
		{"a.vtt", FormatVTT},
		{"a.ass", FormatASS},
		{"a.ssa", FormatASS},
		{"a.VTT", FormatVTT},
		{"a.unknown", FormatSRT},
	}

	for _, tt := range tests {
		if got := GetFormatFromExtension(tt.path); got != tt.want {
			t.Errorf("GetFormatFromExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	for _, format := range []Format{FormatSRT, FormatVTT, FormatASS} {
		if _, err := NewWriter(format); err != nil {
			t.Errorf("NewWriter(%v) error: %v", format, err)
		}
	}
	if _, err := NewWriter(Format("bogus")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriterCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "out.srt")
	writer := &SRTWriter{}
	err := writer.Write([]Entry{{EndTime: time.Second, Text: "x"}}, path)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output not created: %v", err)
	}
}
