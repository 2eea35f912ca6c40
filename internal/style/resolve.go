package style

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseResult is the outcome of resolving untrusted style JSON. It always
// carries a usable Spec; Issues record what had to be defaulted.
type ParseResult struct {
	Spec       Spec
	Confidence float64
	Issues     []string
}

const (
	// confidence when the payload carried no usable JSON at all
	confidenceUnparseable = 0.05
	// confidence when JSON parsed but the payload declared no confidence
	confidenceUndeclared = 0.2
)

// ParseAI resolves free-form model output into a Spec. The input may be the
// bare JSON object, a fenced code block, or JSON buried in prose, and any
// field may be missing, mistyped, or out of range. ParseAI never fails: the
// worst input resolves to Default() with Confidence near zero. The pipeline
// must never abort a render because a model returned malformed text.
func ParseAI(text string) ParseResult {
	cleaned := cleanJSONResponse(text)
	cleaned = fixInvalidEscapes(cleaned)

	raw, ok := firstJSONObject(cleaned)
	if !ok {
		return ParseResult{
			Spec:       Default(),
			Confidence: confidenceUnparseable,
			Issues:     []string{"no JSON object found in style response"},
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ParseResult{
			Spec:       Default(),
			Confidence: confidenceUnparseable,
			Issues:     []string{fmt.Sprintf("style JSON is not an object: %v", err)},
		}
	}

	result := ParseResult{
		Spec:       Default(),
		Confidence: confidenceUndeclared,
	}
	result.apply(fields)
	result.Spec = result.Spec.Clamp()

	return result
}

// apply overrides defaults field by field so a single mistyped value only
// costs that value, not the whole spec
func (r *ParseResult) apply(fields map[string]json.RawMessage) {
	setString := func(key string, dst *string) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			r.Issues = append(r.Issues, fmt.Sprintf("%s: expected string", key))
			return
		}
		*dst = v
	}
	setInt := func(key string, dst *int) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		// models frequently emit numbers as floats or quoted strings
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				r.Issues = append(r.Issues, fmt.Sprintf("%s: expected number", key))
				return
			}
			if _, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &f); err != nil {
				r.Issues = append(r.Issues, fmt.Sprintf("%s: expected number", key))
				return
			}
		}
		*dst = int(f)
	}
	setFloat := func(key string, dst *float64) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			r.Issues = append(r.Issues, fmt.Sprintf("%s: expected number", key))
			return
		}
		*dst = f
	}
	setBool := func(key string, dst *bool) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			r.Issues = append(r.Issues, fmt.Sprintf("%s: expected boolean", key))
			return
		}
		*dst = b
	}

	setString("fontFamily", &r.Spec.FontFamily)
	setInt("fontSize", &r.Spec.FontSize)
	setBool("bold", &r.Spec.Bold)
	setString("textColor", &r.Spec.TextColor)
	setString("strokeColor", &r.Spec.StrokeColor)
	setInt("strokeWidth", &r.Spec.StrokeWidth)
	setString("backgroundColor", &r.Spec.BackgroundColor)
	setInt("backgroundOpacity", &r.Spec.BackgroundOpacity)
	setBool("hasBackground", &r.Spec.HasBackground)
	setBool("textShadow", &r.Spec.TextShadow)
	setInt("positionOffset", &r.Spec.PositionOffset)
	setFloat("maxWidthRatio", &r.Spec.MaxWidthRatio)
	setInt("lineHeight", &r.Spec.LineHeightPct)
	setBool("animations", &r.Spec.Animations)

	var pos string
	setString("position", &pos)
	if pos != "" {
		r.Spec.Position = Position(strings.ToLower(pos))
	}
	var transform string
	setString("textTransform", &transform)
	if transform != "" {
		r.Spec.TextTransform = TextTransform(strings.ToLower(transform))
	}

	var confidence float64
	setFloat("confidence", &confidence)
	if confidence > 0 && confidence <= 1 {
		r.Confidence = confidence
	}
}

// firstJSONObject scans for the first position where a balanced JSON object
// decodes, which handles payloads wrapped in prose.
func firstJSONObject(text string) (json.RawMessage, bool) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		return raw, true
	}
	return nil, false
}

func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// fixInvalidEscapes escapes backslash sequences that are not valid JSON, such
// as the \N line break models copy out of subtitle text.
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if i < len(s)-1 && s[i] == '\\' {
			next := s[i+1]
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				result.WriteByte(s[i])
				result.WriteByte(next)
			default:
				result.WriteString("\\\\")
				result.WriteByte(next)
			}
			i += 2
			continue
		}
		result.WriteByte(s[i])
		i++
	}

	return result.String()
}
