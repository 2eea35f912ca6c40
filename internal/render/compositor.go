package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/Rionsanfas/lunaburn/internal/logging"
	"github.com/Rionsanfas/lunaburn/internal/style"
	"github.com/Rionsanfas/lunaburn/internal/subtitle"
)

// Compositor renders frame-synchronously: the source is decoded to raw RGBA
// frames, each frame falling inside an active subtitle window gets the
// wrapped text block drawn onto it at that frame's own timestamp, and the
// composited frames are re-encoded in a single streaming pass with the source
// audio copied across. One Render call owns both ffmpeg pipes for its
// lifetime; a Compositor must not be shared between concurrent jobs.
type Compositor struct {
	engine *Engine
	logger *logging.Logger

	// overridable for tests
	probe func(ctx context.Context, ffprobePath, filePath string) (*MediaInfo, error)
}

func NewCompositor(engine *Engine, logger *logging.Logger) *Compositor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Compositor{engine: engine, logger: logger, probe: probe}
}

func (c *Compositor) Render(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	paths, err := c.engine.Acquire()
	if err != nil {
		return nil, err
	}
	defer c.engine.Release()

	info, err := c.probe(ctx, paths.FFprobe, req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("source not decodable: %w", err)
	}
	if info.Duration <= 0 || info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf(
			"source video unusable (duration %v, %dx%d): %s",
			info.Duration, info.Width, info.Height, req.InputPath,
		)
	}
	if info.FPS <= 0 {
		return nil, fmt.Errorf("source frame rate unknown: %s", req.InputPath)
	}

	params := style.Canvas(req.styleSpec(), info.Height)
	layout, err := NewTextLayout(params, info.Width, info.Height)
	if err != nil {
		return nil, err
	}
	defer layout.Close()

	c.logger.Infow("compositing subtitles",
		"input", req.InputPath,
		"output", req.OutputPath,
		"fps", info.FPS,
		"frames_estimated", int(info.Duration.Seconds()*info.FPS),
	)

	logs, err := c.pipeline(ctx, paths.FFmpeg, req, info, layout)
	if err != nil {
		return nil, &EngineError{Op: "frame compositing failed", Logs: logs, Err: err}
	}

	outInfo, err := c.probe(ctx, paths.FFprobe, req.OutputPath)
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

	c.logger.Infow("composite complete",
		"output", req.OutputPath,
		"duration", outInfo.Duration.String(),
	)

	return &Result{
		OutputPath: req.OutputPath,
		Duration:   outInfo.Duration,
		Logs:       logs,
	}, nil
}

// pipeline runs decoder and encoder concurrently and walks frames between
// them. Decode failure surfaces before any output is produced.
func (c *Compositor) pipeline(
	ctx context.Context,
	ffmpegPath string,
	req Request,
	info *MediaInfo,
	layout *TextLayout,
) ([]string, error) {
	decodeCmd, decodeLog := c.decodeCommand(ctx, ffmpegPath, req.InputPath)
	encodeCmd, encodeLog := c.encodeCommand(ctx, ffmpegPath, req, info)

	frames, err := decodeCmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open decoder pipe: %w", err)
	}
	sink, err := encodeCmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open encoder pipe: %w", err)
	}

	if err := decodeCmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start decoder: %w", err)
	}
	if err := encodeCmd.Start(); err != nil {
		_ = decodeCmd.Process.Kill()
		_ = decodeCmd.Wait()
		return splitLogLines(decodeLog.String()),
			fmt.Errorf("failed to start encoder: %w", err)
	}

	walkErr := c.walkFrames(req.Timeline, info, layout, frames, sink)
	_ = sink.Close()

	if walkErr != nil {
		// the decoder may still be streaming into a pipe nobody reads,
		// and Wait cannot return until it stops
		_ = decodeCmd.Process.Kill()
	}

	decodeErr := decodeCmd.Wait()
	encodeErr := encodeCmd.Wait()

	logs := append(
		splitLogLines(decodeLog.String()),
		splitLogLines(encodeLog.String())...,
	)

	switch {
	case walkErr != nil:
		return logs, walkErr
	case decodeErr != nil:
		return logs, fmt.Errorf("decoder failed: %w", decodeErr)
	case encodeErr != nil:
		return logs, fmt.Errorf("encoder failed: %w", encodeErr)
	}
	return logs, nil
}

// walkFrames reads raw RGBA frames, composites the active subtitle (if any)
// at each frame's timestamp, and streams the frame to the encoder.
func (c *Compositor) walkFrames(
	timeline []subtitle.Entry,
	info *MediaInfo,
	layout *TextLayout,
	frames io.Reader,
	sink io.Writer,
) error {
	frameSize := info.Width * info.Height * 4
	buf := make([]byte, frameSize)
	framePeriod := time.Duration(float64(time.Second) / info.FPS)

	for frameIndex := 0; ; frameIndex++ {
		if _, err := io.ReadFull(frames, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				if frameIndex == 0 {
					return fmt.Errorf("decoder produced no frames")
				}
				return nil
			}
			return fmt.Errorf("frame read failed at frame %d: %w", frameIndex, err)
		}

		t := time.Duration(frameIndex) * framePeriod
		if entry, ok := subtitle.ActiveAt(timeline, t); ok {
			frame := &image.RGBA{
				Pix:    buf,
				Stride: info.Width * 4,
				Rect:   image.Rect(0, 0, info.Width, info.Height),
			}
			layout.Draw(frame, entry.Text)
		}

		if _, err := sink.Write(buf); err != nil {
			return fmt.Errorf("frame write failed at frame %d: %w", frameIndex, err)
		}
	}
}

func (c *Compositor) decodeCommand(
	ctx context.Context,
	ffmpegPath, inputPath string,
) (*exec.Cmd, *bytes.Buffer) {
	compiled := ffmpeg.Input(inputPath).
		Output("pipe:", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgba",
		}).
		SetFfmpegPath(ffmpegPath).
		Compile()

	cmd := exec.CommandContext(ctx, compiled.Path, compiled.Args[1:]...)
	logBuf := &bytes.Buffer{}
	cmd.Stderr = logBuf
	return cmd, logBuf
}

// encodeCommand assembles the encoder arg list directly. Automatic stream
// selection over the two inputs would map the source video stream alongside
// the composited frames; only the explicit maps may apply.
func (c *Compositor) encodeCommand(
	ctx context.Context,
	ffmpegPath string,
	req Request,
	info *MediaInfo,
) (*exec.Cmd, *bytes.Buffer) {
	args := []string{
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"-framerate", fmt.Sprintf("%f", info.FPS),
		"-i", "pipe:",
		"-i", req.InputPath,
		"-map", "0:v:0",
		"-map", "1:a:0?",
		"-c:v", videoCodec,
		"-crf", strconv.Itoa(encodeCRF),
		"-preset", encodePreset,
		"-pix_fmt", outputPixFmt,
		"-c:a", "copy",
		"-y", req.OutputPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	logBuf := &bytes.Buffer{}
	cmd.Stderr = logBuf
	return cmd, logBuf
}
