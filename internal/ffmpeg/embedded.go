//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"errors"
	"io/fs"
)

// Builds tagged ffmpeg_embedded ship the release bundle inside the binary so
// air-gapped hosts never hit the network. Drop the platform zip under
// assets/ before building.
//
//go:embed assets/*
var embeddedAssets embed.FS

func embeddedArchive(name string) ([]byte, bool, error) {
	data, err := embeddedAssets.ReadFile("assets/" + name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
