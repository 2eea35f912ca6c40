package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	vttTimestampRegex = regexp.MustCompile(
		`(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttShortTimestampRegex = regexp.MustCompile(
		`(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
)

// ParseVTT reads a WebVTT file into timeline entries. NOTE and STYLE blocks
// are skipped; cue identifiers are optional.
func ParseVTT(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VTT file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	var current *Entry
	var textLines []string
	lineNum := 0
	headerParsed := false

	flush := func() {
		if current != nil && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			current.Index = len(entries) + 1
			entries = append(entries, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)

		if !headerParsed {
			if strings.HasPrefix(trimmed, "WEBVTT") {
				headerParsed = true
				continue
			}
		}

		if strings.HasPrefix(trimmed, "NOTE") ||
			strings.HasPrefix(trimmed, "STYLE") {
			for scanner.Scan() {
				lineNum++
				if strings.TrimSpace(scanner.Text()) == "" {
					break
				}
			}
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		if start, end, ok := parseVTTTimestampLine(line); ok {
			// cue identifier lines (if any) precede the timestamp; they are
			// not preserved since the timeline renumbers on export
			current = &Entry{StartTime: start, EndTime: end}
			textLines = nil
			continue
		}

		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT file: %w", err)
	}

	return entries, nil
}

func parseVTTTimestampLine(line string) (time.Duration, time.Duration, bool) {
	if matches := vttTimestampRegex.FindStringSubmatch(line); len(matches) == 9 {
		start, err1 := parseTimestampParts(
			matches[1], matches[2], matches[3], matches[4],
		)
		end, err2 := parseTimestampParts(
			matches[5], matches[6], matches[7], matches[8],
		)
		if err1 == nil && err2 == nil {
			return start, end, true
		}
	}

	if matches := vttShortTimestampRegex.FindStringSubmatch(line); len(matches) == 7 {
		start, err1 := parseTimestampParts(
			"00", matches[1], matches[2], matches[3],
		)
		end, err2 := parseTimestampParts(
			"00", matches[4], matches[5], matches[6],
		)
		if err1 == nil && err2 == nil {
			return start, end, true
		}
	}

	return 0, 0, false
}
