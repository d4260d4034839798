package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into v and returns the keys that did not
// map onto any field.
func LoadTOMLFile(path string, v any) ([]string, error) {
	meta, err := toml.DecodeFile(path, v)
	if err != nil {
		log.Warnf("TOML parsing error in %s: %v", path, err)
		return nil, err
	}
	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return unknown, nil
}

// ParseTOMLSections splits a TOML document on its [section] headers and
// decodes every section that parses on its own. A broken section does not
// take the rest of the file down with it.
func ParseTOMLSections(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	for name, body := range splitSections(string(data)) {
		section := make(map[string]any)
		if _, err := toml.Decode(body, &section); err != nil {
			log.Warnf("Skipping section [%s] in %s: %v", name, path, err)
			continue
		}
		out[name] = section
	}
	return out, nil
}

// splitSections groups lines by the most recent single-bracket table header.
func splitSections(doc string) map[string]string {
	sections := make(map[string]string)
	current := ""
	start := 0
	flush := func(end int) {
		if current != "" {
			sections[current] += doc[start:end]
		}
	}
	for i := 0; i < len(doc); {
		end := i
		for end < len(doc) && doc[end] != '\n' {
			end++
		}
		line := trimSpaceASCII(doc[i:end])
		if len(line) > 2 && line[0] == '[' && line[1] != '[' && line[len(line)-1] == ']' {
			flush(i)
			current = trimSpaceASCII(line[1 : len(line)-1])
			start = min(end+1, len(doc))
		}
		i = end + 1
	}
	flush(len(doc))
	return sections
}

func trimSpaceASCII(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\r') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// ExtractSection extracts a specific section from parsed TOML data
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// ExtractInt safely extracts an integer value from a map
func ExtractInt(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// ExtractBool safely extracts a bool value from a map
func ExtractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}

// ExtractString safely extracts a string value from a map
func ExtractString(data map[string]any, key string) (string, bool) {
	val, ok := data[key].(string)
	return val, ok
}
