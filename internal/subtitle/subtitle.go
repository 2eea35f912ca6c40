// Package subtitle holds the timed-text model shared by the whole pipeline:
// entries with millisecond timing, the SRT/VTT/ASS codecs, and the generator
// that packs transcription segments into readable entries.
package subtitle

import "time"

// Entry is one subtitle cue. Index is the 1-based position used by the SRT
// format; timing is relative to the start of the media.
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Segment is a piece of transcribed speech before subtitle packing.
// Confidence is the transcriber's 0..1 score for the text.
type Segment struct {
	StartTime  time.Duration
	EndTime    time.Duration
	Text       string
	Confidence float64
}

type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// Writer encodes a timeline into one subtitle file.
type Writer interface {
	Write(entries []Entry, path string) error
}
