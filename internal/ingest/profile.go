package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/qaforge/qaforge/pkg/qa"
)

// DecodeProfileExtract reads the scraper's JSON artifact from r. Any decode
// failure or missing answers sequence surfaces as qa.ErrMalformedInput.
func DecodeProfileExtract(r io.Reader) (*qa.ProfileExtract, error) {
	var extract qa.ProfileExtract
	if err := json.NewDecoder(r).Decode(&extract); err != nil {
		return nil, fmt.Errorf("%w: %v", qa.ErrMalformedInput, err)
	}

	if err := extract.Validate(); err != nil {
		return nil, err
	}

	return &extract, nil
}

// LoadProfileExtract reads a profile extract from a JSON file
func LoadProfileExtract(path string) (*qa.ProfileExtract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract file: %w", err)
	}
	defer f.Close()

	extract, err := DecodeProfileExtract(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return extract, nil
}
