package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/Rionsanfas/lunaburn/internal/logging"
	"github.com/Rionsanfas/lunaburn/internal/style"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

const (
	videoCodec   = "libx264"
	encodePreset = "veryfast" // turnaround beats re-encode quality here
	encodeCRF    = 23
	outputPixFmt = "yuv420p"
)

// FilterGraph burns subtitles in a single ffmpeg pass using the subtitles
// filter. The timeline is written out as a styled ASS stylesheet (or, with
// InlineStyle, as plain SRT plus inline force_style parameters) and the audio
// stream is copied unmodified.
type FilterGraph struct {
	engine *Engine
	logger *logging.Logger

	// InlineStyle switches from the stylesheet file to SRT + force_style.
	InlineStyle bool

	// overridable for tests
	probe func(ctx context.Context, ffprobePath, filePath string) (*MediaInfo, error)
}

func NewFilterGraph(engine *Engine, logger *logging.Logger) *FilterGraph {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FilterGraph{engine: engine, logger: logger, probe: probe}
}

func (f *FilterGraph) Render(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	paths, err := f.engine.Acquire()
	if err != nil {
		return nil, err
	}
	defer f.engine.Release()

	info, err := f.probe(ctx, paths.FFprobe, req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("source not decodable: %w", err)
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("source video has zero duration: %s", req.InputPath)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("source video has no video stream: %s", req.InputPath)
	}

	tempDir, err := os.MkdirTemp("", "lunaburn-burn-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	spec := req.styleSpec()

	filter, err := f.buildSubtitleFilter(req.Timeline, spec, info, tempDir)
	if err != nil {
		return nil, err
	}

	f.logger.Infow("burning subtitles",
		"input", req.InputPath,
		"output", req.OutputPath,
		"width", info.Width,
		"height", info.Height,
		"entries", len(req.Timeline),
		"inline_style", f.InlineStyle,
	)

	logs, err := f.run(ctx, paths.FFmpeg, req, filter)
	if err != nil {
		return nil, &EngineError{Op: "subtitle filter failed", Logs: logs, Err: err}
	}

	// the only self-check: a filter or mux problem can exit zero yet leave a
	// zero-duration file behind, and that must never be reported as success
	outInfo, err := f.probe(ctx, paths.FFprobe, req.OutputPath)
	if err != nil {
		return nil, &EngineError{
			Op:   "output validation failed",
			Logs: logs,
			Err:  fmt.Errorf("rendered file not decodable: %w", err),
		}
	}
	if outInfo.Duration <= 0 {
		return nil, &EngineError{
			Op:   "output validation failed",
			Logs: logs,
			Err:  fmt.Errorf("rendered file reports zero duration"),
		}
	}

	f.logger.Infow("burn complete",
		"output", req.OutputPath,
		"duration", outInfo.Duration.String(),
	)

	return &Result{
		OutputPath: req.OutputPath,
		Duration:   outInfo.Duration,
		Logs:       logs,
	}, nil
}

// buildSubtitleFilter writes the subtitle artifact and returns the -vf value.
func (f *FilterGraph) buildSubtitleFilter(
	entries []subtitle.Entry,
	spec style.Spec,
	info *MediaInfo,
	tempDir string,
) (string, error) {
	if f.InlineStyle {
		srtPath := filepath.Join(tempDir, "timeline.srt")
		writer := &subtitle.SRTWriter{}
		if err := writer.Write(entries, srtPath); err != nil {
			return "", fmt.Errorf("failed to write subtitle file: %w", err)
		}
		return fmt.Sprintf(
			"subtitles=%s:force_style='%s'",
			escapeFilterPath(srtPath),
			style.ForceStyle(spec, info.Height),
		), nil
	}

	assPath := filepath.Join(tempDir, "timeline.ass")
	writer := &subtitle.ASSWriter{
		Title:     "lunaburn subtitles",
		StyleLine: style.StyleLine(spec, info.Width, info.Height),
		PlayResX:  info.Width,
		PlayResY:  info.Height,
	}
	if err := writer.Write(entries, assPath); err != nil {
		return "", fmt.Errorf("failed to write subtitle stylesheet: %w", err)
	}
	return "subtitles=" + escapeFilterPath(assPath), nil
}

func (f *FilterGraph) run(
	ctx context.Context,
	ffmpegPath string,
	req Request,
	filter string,
) ([]string, error) {
	compiled := ffmpeg.Input(req.InputPath).
		Output(req.OutputPath, ffmpeg.KwArgs{
			"vf":      filter,
			"c:v":     videoCodec,
			"crf":     encodeCRF,
			"preset":  encodePreset,
			"pix_fmt": outputPixFmt,
			"c:a":     "copy",
		}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Compile()

	// re-wrap so the caller's deadline aborts the encode
	cmd := exec.CommandContext(ctx, compiled.Path, compiled.Args[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	logs := splitLogLines(stderr.String())
	for _, line := range logs {
		f.logger.Debugw("ffmpeg", "line", line)
	}
	return logs, err
}

// escapeFilterPath escapes a subtitle file path for use inside a filter
// argument, where ':' and quotes are syntax.
func escapeFilterPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	if runtime.GOOS == "windows" {
		absPath = strings.ReplaceAll(absPath, "\\", "/")
	}

	escaped := strings.ReplaceAll(absPath, ":", "\\:")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")
	return escaped
}
