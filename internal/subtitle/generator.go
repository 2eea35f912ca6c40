package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Generator turns raw transcription segments into display-ready timeline
// entries, splitting segments that are too long to read in one subtitle.
type Generator struct {
	MaxCharsPerLine int
	MaxLinesPerSub  int
	MaxDuration     time.Duration
}

func NewGenerator() *Generator {
	return &Generator{
		MaxCharsPerLine: 42, // standard subtitle line length
		MaxLinesPerSub:  2,  // most players support 2 lines
		MaxDuration:     7 * time.Second,
	}
}

// Generate converts segments to entries. Segments exceeding the character or
// duration budget are split into multiple entries with proportional timing.
func (g *Generator) Generate(segments []Segment) []Entry {
	var entries []Entry
	index := 1

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		if g.needsSplit(text, seg.EndTime-seg.StartTime) {
			split := g.splitSegment(seg, index)
			entries = append(entries, split...)
			index += len(split)
		} else {
			entries = append(entries, Entry{
				Index:     index,
				StartTime: seg.StartTime,
				EndTime:   seg.EndTime,
				Text:      g.breakLines(text),
			})
			index++
		}
	}

	return entries
}

func (g *Generator) needsSplit(text string, duration time.Duration) bool {
	if utf8.RuneCountInString(text) > g.MaxCharsPerLine*g.MaxLinesPerSub {
		return true
	}
	return duration > g.MaxDuration
}

// splits a long segment into multiple entries, distributing words evenly and
// timing each piece proportionally within the original window
func (g *Generator) splitSegment(seg Segment, startIndex int) []Entry {
	text := strings.TrimSpace(seg.Text)
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	totalDuration := seg.EndTime - seg.StartTime
	maxChars := g.MaxCharsPerLine * g.MaxLinesPerSub
	totalChars := utf8.RuneCountInString(text)

	numSplits := (totalChars + maxChars - 1) / maxChars
	if numSplits < 1 {
		numSplits = 1
	}
	durationSplits := int(totalDuration/g.MaxDuration) + 1
	if durationSplits > numSplits {
		numSplits = durationSplits
	}

	wordsPerSplit := (len(words) + numSplits - 1) / numSplits
	durationPerSplit := totalDuration / time.Duration(numSplits)

	var entries []Entry
	currentStart := seg.StartTime

	for i := 0; i < numSplits && len(words) > 0; i++ {
		endIdx := wordsPerSplit
		if endIdx > len(words) {
			endIdx = len(words)
		}

		splitWords := words[:endIdx]
		words = words[endIdx:]

		currentEnd := currentStart + durationPerSplit
		if len(words) == 0 {
			currentEnd = seg.EndTime
		}

		entries = append(entries, Entry{
			Index:     startIndex + i,
			StartTime: currentStart,
			EndTime:   currentEnd,
			Text:      g.breakLines(strings.Join(splitWords, " ")),
		})

		currentStart = currentEnd
	}

	return entries
}

// breakLines inserts a line break near the middle of text that exceeds the
// per-line character budget
func (g *Generator) breakLines(text string) string {
	text = strings.TrimSpace(text)
	runeCount := utf8.RuneCountInString(text)
	if runeCount <= g.MaxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := currentLen - middle
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		return strings.Join(words[:bestSplit], " ") +
			"\n" +
			strings.Join(words[bestSplit:], " ")
	}

	return text
}
