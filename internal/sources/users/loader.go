// Package users loads the fixed set of user identifiers offered by the selector.
package users

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultIDs is the identifier set used when nothing else is configured.
var DefaultIDs = []string{"1", "2", "3", "4", "5"}

// ErrNoUsers is returned when a configured identifier list ends up empty.
var ErrNoUsers = errors.New("no user identifiers configured")

// File is the root structure of the users file.
//
//	users:
//	  - "1"
//	  - alice
type File struct {
	Users []string `yaml:"users"`
}

// Loader reads user identifiers from a YAML file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads the file and returns its normalized identifiers.
func (l *Loader) Load() ([]string, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse users yaml: %w", err)
	}

	ids, err := Normalize(f.Users)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.filePath, err)
	}
	return ids, nil
}

// Normalize trims identifiers, drops blanks and duplicates, and keeps first-seen order.
func Normalize(raw []string) ([]string, error) {
	ids := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNoUsers
	}
	return ids, nil
}

// Resolve picks the identifier set: the file when given, the inline list otherwise,
// and DefaultIDs when both are empty.
func Resolve(filePath string, inline []string) ([]string, error) {
	if strings.TrimSpace(filePath) != "" {
		return NewLoader(filePath).Load()
	}
	if len(inline) == 0 {
		return append([]string(nil), DefaultIDs...), nil
	}
	return Normalize(inline)
}
