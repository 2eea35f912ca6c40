//go:build !ffmpeg_embedded

package ffmpeg

func embeddedArchive(string) ([]byte, bool, error) {
	return nil, false, nil
}
