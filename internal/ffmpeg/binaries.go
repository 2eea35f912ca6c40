package ffmpeg

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	bundleVersion = "6.1"
	bundleBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"
)

// per-platform archive names published by ffbinaries
var bundleAssets = map[string]string{
	"linux/amd64":   "ffmpeg-" + bundleVersion + "-linux-64.zip",
	"linux/arm64":   "ffmpeg-" + bundleVersion + "-linux-arm-64.zip",
	"darwin/amd64":  "ffmpeg-" + bundleVersion + "-macos-64.zip",
	"windows/amd64": "ffmpeg-" + bundleVersion + "-win-64.zip",
}

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves ffmpeg and ffprobe once per process. Resolution order is
// env overrides, then PATH, then a cached download under the user cache dir.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve()
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve() (BinaryPaths, error) {
	paths := fromEnv()
	if paths.complete() {
		return paths, nil
	}

	paths = fromSystemPath(paths)
	if paths.complete() {
		return paths, nil
	}

	return install()
}

func (p BinaryPaths) complete() bool {
	return p.FFmpeg != "" && p.FFprobe != ""
}

func fromEnv() BinaryPaths {
	return BinaryPaths{
		FFmpeg:  os.Getenv("LUNABURN_FFMPEG_PATH"),
		FFprobe: os.Getenv("LUNABURN_FFPROBE_PATH"),
	}
}

func fromSystemPath(paths BinaryPaths) BinaryPaths {
	if paths.FFmpeg == "" {
		if found, err := exec.LookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := exec.LookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}
	return paths
}

// install places the bundled binaries under the cache dir, downloading the
// archive on first use. The layout is versioned per platform so upgrades
// never fight a stale cache.
func install() (BinaryPaths, error) {
	platform := runtime.GOOS + "/" + runtime.GOARCH
	assetName, ok := bundleAssets[platform]
	if !ok {
		return BinaryPaths{}, fmt.Errorf(
			"no bundled ffmpeg for %s: install ffmpeg and ffprobe or set LUNABURN_FFMPEG_PATH/LUNABURN_FFPROBE_PATH",
			platform,
		)
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil || cacheDir == "" {
		cacheDir = os.TempDir()
	}
	installDir := filepath.Join(
		cacheDir, "lunaburn", "ffmpeg",
		bundleVersion, runtime.GOOS, runtime.GOARCH,
	)

	paths := BinaryPaths{
		FFmpeg:  filepath.Join(installDir, binaryName("ffmpeg")),
		FFprobe: filepath.Join(installDir, binaryName("ffprobe")),
	}
	if installed(paths) {
		return paths, nil
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return BinaryPaths{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
	}

	archive, err := loadArchive(assetName)
	if err != nil {
		return BinaryPaths{}, err
	}
	if err := unpackBinaries(archive, installDir); err != nil {
		return BinaryPaths{}, fmt.Errorf("unpack %s: %w", assetName, err)
	}

	if !installed(paths) {
		return BinaryPaths{}, errors.New("ffmpeg archive did not contain usable binaries")
	}
	return paths, nil
}

// loadArchive prefers an asset compiled in with the ffmpeg_embedded build tag
// and falls back to downloading the release bundle.
func loadArchive(assetName string) ([]byte, error) {
	if data, ok, err := embeddedArchive(assetName); err != nil {
		return nil, err
	} else if ok {
		return data, nil
	}
	return downloadArchive(assetName)
}

func downloadArchive(assetName string) ([]byte, error) {
	url := fmt.Sprintf("%s/v%s/%s", bundleBaseURL, bundleVersion, assetName)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch ffmpeg bundle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch ffmpeg bundle: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ffmpeg bundle: %w", err)
	}
	return data, nil
}

// unpackBinaries walks the archive for the two tool binaries, ignoring
// documentation and anything else the bundle ships.
func unpackBinaries(archive []byte, installDir string) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return err
	}

	wanted := map[string]bool{"ffmpeg": false, "ffprobe": false}
	for _, entry := range zr.File {
		base := strings.ToLower(filepath.Base(entry.Name))
		tool := strings.TrimSuffix(base, ".exe")
		if _, want := wanted[tool]; !want {
			continue
		}
		dest := filepath.Join(installDir, binaryName(tool))
		if err := writeBinary(entry, dest); err != nil {
			return err
		}
		wanted[tool] = true
	}

	for tool, found := range wanted {
		if !found {
			return fmt.Errorf("archive is missing %s", tool)
		}
	}
	return nil
}

func writeBinary(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func installed(paths BinaryPaths) bool {
	return isExecutableFile(paths.FFmpeg) && isExecutableFile(paths.FFprobe)
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

func binaryName(tool string) string {
	if runtime.GOOS == "windows" {
		return tool + ".exe"
	}
	return tool
}
