package render

import (
	"testing"
	"time"
)

func TestParseProbeOutput(t *testing.T) {
	output := []byte(`{
		"format": {"duration": "12.500000"},
		"streams": [
			{
				"codec_type": "video",
				"codec_name": "h264",
				"width": 1920,
				"height": 1080,
				"r_frame_rate": "30000/1001"
			},
			{"codec_type": "audio", "codec_name": "aac"}
		]
	}`)

	info, err := parseProbeOutput(output)
	if err != nil {
		t.Fatalf("parseProbeOutput error: %v", err)
	}

	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("geometry = %dx%d", info.Width, info.Height)
	}
	if info.Duration != 12500*time.Millisecond {
		t.Errorf("Duration = %v, want 12.5s", info.Duration)
	}
	if info.Codec != "h264" {
		t.Errorf("Codec = %q", info.Codec)
	}
	if !info.HasAudio {
		t.Error("HasAudio = false")
	}
	if info.FPS < 29.96 || info.FPS > 29.98 {
		t.Errorf("FPS = %v, want ~29.97", info.FPS)
	}
}

func TestParseProbeOutputVideoOnly(t *testing.T) {
	output := []byte(`{
		"format": {"duration": "3.0"},
		"streams": [
			{"codec_type": "video", "codec_name": "vp9", "width": 640, "height": 360, "r_frame_rate": "25/1"}
		]
	}`)

	info, err := parseProbeOutput(output)
	if err != nil {
		t.Fatal(err)
	}
	if info.HasAudio {
		t.Error("HasAudio = true for a silent stream list")
	}
	if info.FPS != 25 {
		t.Errorf("FPS = %v, want 25", info.FPS)
	}
}

func TestParseProbeOutputMissingDuration(t *testing.T) {
	info, err := parseProbeOutput([]byte(`{"format": {}, "streams": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if info.Duration != 0 {
		t.Errorf("Duration = %v, want 0", info.Duration)
	}
}

func TestParseProbeOutputInvalidJSON(t *testing.T) {
	if _, err := parseProbeOutput([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		rate string
		want float64
	}{
		{"25/1", 25},
		{"30", 30},
		{"0/0", 0},
		{"abc", 0},
		{"abc/def", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := parseFrameRate(tt.rate); got != tt.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}
