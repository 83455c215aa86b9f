package descriptor

import (
	"fmt"

	toml "github.com/pelletier/go-toml"
)

// Parse decodes an info.toml document and validates the required fields.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	if d.ID == "" {
		return nil, fmt.Errorf("parse descriptor: missing id")
	}
	if d.Title == "" {
		return nil, fmt.Errorf("parse descriptor: missing title")
	}
	return &d, nil
}
