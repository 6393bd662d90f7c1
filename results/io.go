package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes a run document to a JSON file, indented so clinicians
// and diff tools can read it.
func WriteJSON(res *Results, filename string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// ReadJSON loads a run document from a JSON file. Documents written by
// any schema 1.x version load; unknown fields are ignored.
func ReadJSON(filename string) (*Results, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}

	var res Results
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}

	return &res, nil
}
