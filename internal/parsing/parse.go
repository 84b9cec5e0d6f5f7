// Package parsing extracts structured data from completion responses. The
// external model is supposed to return JSON for most features, but in
// practice wraps it in code fences, prefixes it with prose, or mangles it
// entirely, so every path here fails closed with a typed ParseError.
package parsing

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/cv-matcher/internal/schemas"
)

// Parse extracts a Result of the given kind from raw response text.
func Parse(raw string, kind Kind) (Result, error) {
	switch kind {
	case KindScoreAnalysis:
		return parseAnalysis(raw)
	case KindActionList:
		return parseActions(raw)
	case KindImprovementList:
		return parseImprovements(raw)
	case KindQuestionList:
		return parseQuestions(raw)
	case KindFreeText:
		return parseFreeText(raw)
	default:
		return nil, &ParseError{Kind: kind, Message: "unknown response kind"}
	}
}

func parseAnalysis(raw string) (Result, error) {
	jsonText, err := locateJSON(raw, KindScoreAnalysis)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.Analysis, []byte(jsonText)); err != nil {
		return nil, &ParseError{Kind: KindScoreAnalysis, Message: "response does not match analysis shape", Cause: err}
	}

	var result Analysis
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, &ParseError{Kind: KindScoreAnalysis, Message: "failed to decode analysis JSON", Cause: err}
	}
	return result, nil
}

func parseImprovements(raw string) (Result, error) {
	jsonText, err := locateJSON(raw, KindImprovementList)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.Improvements, []byte(jsonText)); err != nil {
		return nil, &ParseError{Kind: KindImprovementList, Message: "improvements is missing or not an array", Cause: err}
	}

	var result Improvements
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, &ParseError{Kind: KindImprovementList, Message: "failed to decode improvements JSON", Cause: err}
	}
	if result.Improvements == nil {
		result.Improvements = []Improvement{}
	}
	return result, nil
}

func parseQuestions(raw string) (Result, error) {
	jsonText, err := locateJSON(raw, KindQuestionList)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.Questions, []byte(jsonText)); err != nil {
		return nil, &ParseError{Kind: KindQuestionList, Message: "questions is missing or not an array", Cause: err}
	}

	var result Questions
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return nil, &ParseError{Kind: KindQuestionList, Message: "failed to decode questions JSON", Cause: err}
	}
	if result.Questions == nil {
		result.Questions = []Question{}
	}
	return result, nil
}

// parseActions splits a plain-text list into items, stripping any list
// markers the model emitted despite instructions.
func parseActions(raw string) (Result, error) {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		line = stripListMarker(strings.TrimSpace(line))
		if line != "" {
			items = append(items, line)
		}
	}

	if len(items) == 0 {
		return nil, &ParseError{Kind: KindActionList, Message: "empty response"}
	}
	return Actions{Items: items}, nil
}

func parseFreeText(raw string) (Result, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &ParseError{Kind: KindFreeText, Message: "empty response"}
	}
	return FreeText{Text: text}, nil
}

// locateJSON strips code fences and, if the cleaned text is not itself a
// JSON object, falls back to the first balanced {...} span.
func locateJSON(raw string, kind Kind) (string, error) {
	text := CleanJSONBlock(raw)
	if text == "" {
		return "", &ParseError{Kind: kind, Message: "empty response"}
	}

	if json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return text, nil
	}

	span, ok := firstObjectSpan(text)
	if !ok {
		return "", &ParseError{Kind: kind, Message: "no JSON object found in response"}
	}
	if !json.Valid([]byte(span)) {
		return "", &ParseError{Kind: kind, Message: "located JSON span is malformed"}
	}
	return span, nil
}

// CleanJSONBlock removes markdown code fence wrappers. Models often wrap
// JSON in ```json ... ``` even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the opening fence line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// firstObjectSpan returns the first balanced top-level {...} span,
// ignoring braces inside JSON string literals.
func firstObjectSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// stripListMarker removes a leading bullet or "1." style numbering.
func stripListMarker(line string) string {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}

	// Numbered markers: digits followed by "." or ")".
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
