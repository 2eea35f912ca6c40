package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDecodeSRT(t *testing.T) {
	input := `1
00:00:01,000 --> 00:00:03,500
Hello world

2
00:00:04,000 --> 00:00:06,000
Second line
continues here
`

	entries, err := DecodeSRT(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeSRT error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.StartTime != 1*time.Second {
		t.Errorf("first start = %v, want 1s", first.StartTime)
	}
	if first.EndTime != 3500*time.Millisecond {
		t.Errorf("first end = %v, want 3.5s", first.EndTime)
	}
	if first.Text != "Hello world" {
		t.Errorf("first text = %q", first.Text)
	}

	if entries[1].Text != "Second line\ncontinues here" {
		t.Errorf("multiline text = %q", entries[1].Text)
	}
}

func TestDecodeSRTStripsBOM(t *testing.T) {
	input := "\ufeff1\n00:00:00,000 --> 00:00:01,000\nText\n"

	entries, err := DecodeSRT(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeSRT error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestDecodeSRTSkipsBlockWithoutText(t *testing.T) {
	input := `1
00:00:01,000 --> 00:00:02,000

2
00:00:03,000 --> 00:00:04,000
Real text
`

	entries, err := DecodeSRT(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeSRT error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Text != "Real text" {
		t.Errorf("text = %q", entries[0].Text)
	}
}

func TestSRTRoundTrip(t *testing.T) {
	entries := []Entry{
		{
			Index:     1,
			StartTime: 1500 * time.Millisecond,
			EndTime:   3999 * time.Millisecond,
			Text:      "First entry",
		},
		{
			Index:     2,
			StartTime: 1*time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond,
			EndTime:   1*time.Hour + 2*time.Minute + 5*time.Second,
			Text:      "Two\nlines",
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.srt")

	writer := &SRTWriter{}
	if err := writer.Write(entries, path); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	parsed, err := ParseSRT(path)
	if err != nil {
		t.Fatalf("ParseSRT error: %v", err)
	}
	if len(parsed) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(parsed))
	}

	for i := range entries {
		if parsed[i].StartTime != entries[i].StartTime {
			t.Errorf("entry %d start = %v, want %v", i, parsed[i].StartTime, entries[i].StartTime)
		}
		if parsed[i].EndTime != entries[i].EndTime {
			t.Errorf("entry %d end = %v, want %v", i, parsed[i].EndTime, entries[i].EndTime)
		}
		if parsed[i].Text != entries[i].Text {
			t.Errorf("entry %d text = %q, want %q", i, parsed[i].Text, entries[i].Text)
		}
	}
}

func TestFormatSRTTimeTruncatesSubMillisecond(t *testing.T) {
	// 999.5ms truncates to 999, never rounds up into the next second
	d := 999*time.Millisecond + 500*time.Microsecond
	got := formatSRTTime(d)
	if got != "00:00:00,999" {
		t.Errorf("formatSRTTime(%v) = %q, want 00:00:00,999", d, got)
	}
}

func TestParseSRTMissingFile(t *testing.T) {
	_, err := ParseSRT(filepath.Join(t.TempDir(), "missing.srt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseVTT(t *testing.T) {
	input := `WEBVTT

NOTE this comment block
spans two lines

1
00:00:01.000 --> 00:00:03.000
Full timestamps

02:30.500 --> 02:32.000
Short timestamps
`

	dir := t.TempDir()
	path := filepath.Join(dir, "test.vtt")
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ParseVTT(path)
	if err != nil {
		t.Fatalf("ParseVTT error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].StartTime != 1*time.Second || entries[0].Text != "Full timestamps" {
		t.Errorf("entry 0 = %+v", entries[0])
	}

	wantStart := 2*time.Minute + 30*time.Second + 500*time.Millisecond
	if entries[1].StartTime != wantStart {
		t.Errorf("short timestamp start = %v, want %v", entries[1].StartTime, wantStart)
	}
}

func TestOpenDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	srtPath := filepath.Join(dir, "a.srt")
	srtData := "1\n00:00:00,000 --> 00:00:01,000\nSRT text\n"
	if err := os.WriteFile(srtPath, []byte(srtData), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := Open(srtPath)
	if err != nil {
		t.Fatalf("Open(.srt) error: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "SRT text" {
		t.Errorf("Open(.srt) = %+v", entries)
	}

	if _, err := Open(filepath.Join(dir, "a.txt")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
