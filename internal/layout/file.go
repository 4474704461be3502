package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/elektrokombinacija/gridnav/internal/core"
)

// Load reads and validates a JSON layout.
func Load(path string) (*core.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}

	var l core.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout json: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return &l, nil
}

// Save writes l as indented JSON.
func Save(path string, l *core.Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
