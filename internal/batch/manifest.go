package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one processed file in the output manifest.
type ManifestEntry struct {
	Input     string `json:"input"`
	Output    string `json:"output,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	OldBytes  int64  `json:"old_bytes,omitempty"`
	NewBytes  int64  `json:"new_bytes,omitempty"`
	Attempts  int    `json:"attempts,omitempty"`
	TargetMet bool   `json:"target_met,omitempty"`
}

// WriteManifest writes a JSON summary of a batch run.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Input:     r.Path,
			Output:    r.OutPath,
			Success:   r.Success,
			Error:     r.Error,
			OldBytes:  r.OldSize,
			NewBytes:  r.NewSize,
			Attempts:  r.Attempts,
			TargetMet: r.TargetMet,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
