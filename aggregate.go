package libtrace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// signaturesFileName is the fixed output document name, always written
// directly under the caller's output directory.
const signaturesFileName = "Signatures.json"

// Aggregator merges per-object signature maps, collected from Scheduler
// Handles in submission order, into one final document and persists it.
type Aggregator struct {
	result map[string]string
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{result: make(map[string]string)}
}

// Merge folds partial into the aggregate. When a name was already present,
// partial's value overwrites it — callers merge in submission order, so
// later archive members win ties.
func (a *Aggregator) Merge(partial map[string]string) {
	for name, pattern := range partial {
		a.result[name] = pattern
	}
}

// WriteJSON serializes the aggregate as a 4-space-indented JSON document,
// newline-terminated, to <outputDir>/Signatures.json, creating outputDir if
// needed.
func (a *Aggregator) WriteJSON(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("libtrace: creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(a.result, "", "    ")
	if err != nil {
		return "", fmt.Errorf("libtrace: marshaling signatures: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(outputDir, signaturesFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("libtrace: writing %s: %w", path, err)
	}
	return path, nil
}
