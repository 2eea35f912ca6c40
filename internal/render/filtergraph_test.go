package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ffmpegbin "github.com/Rionsanfas/lunaburn/internal/ffmpeg"
)

func TestFilterGraphRenderRejectsZeroDurationOutput(t *testing.T) {
	dir := t.TempDir()
	tool := writeStubTool(t, dir, "exit 0\n")

	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := &Engine{ensure: func() (ffmpegbin.BinaryPaths, error) {
		return ffmpegbin.BinaryPaths{FFmpeg: tool, FFprobe: tool}, nil
	}}

	fg := NewFilterGraph(engine, nil)
	probes := 0
	fg.probe = func(ctx context.Context, ffprobePath, filePath string) (*MediaInfo, error) {
		probes++
		if probes == 1 {
			return &MediaInfo{Width: 1280, Height: 720, FPS: 30, Duration: time.Second}, nil
		}
		return &MediaInfo{}, nil
	}

	_, err := fg.Render(context.Background(), Request{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.mp4"),
		Timeline:   validTimeline(),
	})

	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("expected EngineError, got %v", err)
	}
	if engErr.Op != "output validation failed" {
		t.Errorf("Op = %q, want output validation failed", engErr.Op)
	}
	if !strings.Contains(engErr.Err.Error(), "zero duration") {
		t.Errorf("Err = %v, want zero duration report", engErr.Err)
	}
}
