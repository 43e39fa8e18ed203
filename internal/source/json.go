package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BartekS5/soundope-import/pkg/models"
)

// readBundles decodes an exported users file: a top-level array of
// {user, tracks, comments, feedbackGiven, feedbackReceived} objects.
func readBundles(path string) ([]models.UserBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bundles []models.UserBundle
	if err := json.Unmarshal(data, &bundles); err != nil {
		return nil, fmt.Errorf("decoding user bundles: %w", err)
	}
	return bundles, nil
}
