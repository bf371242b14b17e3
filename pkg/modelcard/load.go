package modelcard

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a card override from disk. An empty path returns the built-in
// card.
func Load(path string) (*Card, error) {
	if path == "" {
		return DefaultCard(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model card: %w", err)
	}

	var card Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("parse model card: %w", err)
	}
	if len(card.Variables) == 0 {
		return nil, fmt.Errorf("model card %s documents no variables", path)
	}
	return &card, nil
}
