// Package prompts holds the externalized LLM prompt templates and the pure
// builder functions that turn a CV and job description into prompt text.
// Templates are stored as JSON and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed templates.json
var templateFiles embed.FS

var (
	templates     map[string]string
	templatesOnce sync.Once
	templatesErr  error
)

// Get retrieves a prompt template by key. Returns an error if the key is
// not present in the embedded template file.
func Get(key string) (string, error) {
	templatesOnce.Do(func() {
		data, err := templateFiles.ReadFile("templates.json")
		if err != nil {
			templatesErr = fmt.Errorf("failed to read template file: %w", err)
			return
		}
		if err := json.Unmarshal(data, &templates); err != nil {
			templatesErr = fmt.Errorf("failed to parse template file: %w", err)
		}
	})
	if templatesErr != nil {
		return "", templatesErr
	}

	template, exists := templates[key]
	if !exists {
		return "", fmt.Errorf("prompt template %q not found", key)
	}
	return template, nil
}

// MustGet retrieves a prompt template by key, panicking if not found.
// Templates are embedded, so a missing key is a programming error.
func MustGet(key string) string {
	template, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt template: %v", err))
	}
	return template
}

// Format replaces placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
