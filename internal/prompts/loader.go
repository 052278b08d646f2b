// Package prompts holds the LLM prompt texts, embedded as JSON files so
// the wording can change without touching the extraction code.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
)

//go:embed *.json
var promptFS embed.FS

// loadAll parses every embedded prompt file exactly once. The file set is
// fixed at compile time, so there is nothing to reload or invalidate.
var loadAll = sync.OnceValues(func() (map[string]map[string]string, error) {
	entries, err := promptFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts: %w", err)
	}

	table := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		data, err := promptFS.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", entry.Name(), err)
		}
		table[entry.Name()] = prompts
	}
	return table, nil
})

func fileTable(filename string) (map[string]string, error) {
	table, err := loadAll()
	if err != nil {
		return nil, err
	}
	prompts, ok := table[filename]
	if !ok {
		return nil, fmt.Errorf("failed to read prompt file %s: no such file", filename)
	}
	return prompts, nil
}

// Get returns the prompt stored under key in the named file, for example
// Get("extraction.json", "extract-job-posting").
func Get(filename, key string) (string, error) {
	prompts, err := fileTable(filename)
	if err != nil {
		return "", err
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts the binary cannot run without; it panics on a
// missing file or key.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// List returns the prompt keys of the named file, sorted.
func List(filename string) ([]string, error) {
	prompts, err := fileTable(filename)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(prompts)), nil
}
