package parsing

import (
	"strings"
	"time"
)

// Placeholder tokens the model tends to leave in generated letters.
var (
	datePlaceholders = []string{"[Date]", "[Today's Date]", "[DATE]"}
	namePlaceholders = []string{"[Your Name]", "[Your name]", "[Name]", "[YOUR NAME]"}
)

// maxNameLength caps what the first CV line may be to count as a name.
const maxNameLength = 60

// ExtractName guesses the candidate's name from the first non-empty CV
// line. Returns "" when the line does not look like a name.
func ExtractName(cvText string) string {
	for _, line := range strings.Split(cvText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxNameLength || strings.ContainsAny(line, ":@/0123456789") {
			return ""
		}
		return line
	}
	return ""
}

// FillPlaceholders substitutes date and name placeholders in free-text
// output. Unresolvable name placeholders are left untouched.
func FillPlaceholders(text, name string, now time.Time) string {
	date := now.Format("January 2, 2006")
	for _, placeholder := range datePlaceholders {
		text = strings.ReplaceAll(text, placeholder, date)
	}

	if name != "" {
		for _, placeholder := range namePlaceholders {
			text = strings.ReplaceAll(text, placeholder, name)
		}
	}
	return text
}
