package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	ffmpegbin "github.com/Rionsanfas/lunaburn/internal/ffmpeg"
	"github.com/Rionsanfas/lunaburn/internal/style"
)

// writeStubTool writes a shell script that stands in for ffmpeg. The body
// can branch on "$*" to behave differently for decoder and encoder
// invocations.
func writeStubTool(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool requires sh")
	}
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncodeCommandMapsBurnedVideoAndSourceAudioOnly(t *testing.T) {
	c := NewCompositor(nil, nil)
	info := &MediaInfo{Width: 1280, Height: 720, FPS: 30}
	req := Request{InputPath: "in.mp4", OutputPath: "out.mp4"}

	cmd, _ := c.encodeCommand(context.Background(), "ffmpeg", req, info)

	var maps, inputs []string
	for i := 0; i+1 < len(cmd.Args); i++ {
		switch cmd.Args[i] {
		case "-map":
			maps = append(maps, cmd.Args[i+1])
		case "-i":
			inputs = append(inputs, cmd.Args[i+1])
		}
	}

	if len(maps) != 2 || maps[0] != "0:v:0" || maps[1] != "1:a:0?" {
		t.Errorf("stream maps = %v, want [0:v:0 1:a:0?]", maps)
	}
	if len(inputs) != 2 || inputs[0] != "pipe:" || inputs[1] != "in.mp4" {
		t.Errorf("inputs = %v, want [pipe: in.mp4]", inputs)
	}
}

func TestPipelineReturnsWhenEncoderDiesMidStream(t *testing.T) {
	dir := t.TempDir()
	tool := writeStubTool(t, dir, strings.Join([]string{
		`case "$*" in`,
		`*out.mp4*) exit 1 ;;`,
		`esac`,
		`exec cat /dev/zero`,
		``,
	}, "\n"))

	c := NewCompositor(nil, nil)
	info := &MediaInfo{Width: 64, Height: 64, FPS: 30, Duration: time.Second}
	layout := newTestLayout(t, style.Default(), info.Width, info.Height)

	req := Request{
		InputPath:  filepath.Join(dir, "in.raw"),
		OutputPath: filepath.Join(dir, "out.mp4"),
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.pipeline(context.Background(), tool, req, info, layout)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error after the encoder exited")
		}
	case <-time.After(15 * time.Second):
		t.Fatal("pipeline did not return after the encoder exited")
	}
}

func TestCompositorRenderRejectsZeroDurationOutput(t *testing.T) {
	dir := t.TempDir()
	tool := writeStubTool(t, dir, strings.Join([]string{
		`case "$*" in`,
		`*out.mp4*) cat >/dev/null; exit 0 ;;`,
		`esac`,
		// exactly one 64x64 RGBA frame
		`head -c 16384 /dev/zero`,
		``,
	}, "\n"))

	input := filepath.Join(dir, "in.bin")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := &Engine{ensure: func() (ffmpegbin.BinaryPaths, error) {
		return ffmpegbin.BinaryPaths{FFmpeg: tool, FFprobe: tool}, nil
	}}

	c := NewCompositor(engine, nil)
	probes := 0
	c.probe = func(ctx context.Context, ffprobePath, filePath string) (*MediaInfo, error) {
		probes++
		if probes == 1 {
			return &MediaInfo{Width: 64, Height: 64, FPS: 30, Duration: time.Second}, nil
		}
		return &MediaInfo{}, nil
	}

	_, err := c.Render(context.Background(), Request{
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
	if probes != 2 {
		t.Errorf("probe calls = %d, want 2", probes)
	}
}
