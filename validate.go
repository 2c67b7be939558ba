package structguard

import "fmt"

// Validation report statuses.
const (
	ValidationStatusValid = "valid"
	ValidationStatusError = "error"
)

// DiffStats summarizes how an edited flat map relates to the node set of
// the document it will be injected into. TotalNodes is always the sum of
// ModifiedNodes and UnchangedNodes; nodes with no provided edit count as
// unchanged because injection leaves them alone.
type DiffStats struct {
	TotalNodes     int `json:"total_items"`
	ModifiedNodes  int `json:"modified_items"`
	UnchangedNodes int `json:"unchanged_items"`
	ProvidedKeys   int `json:"modifications_provided"`
	MissingKeys    int `json:"missing_modifications"`
	UnknownKeys    int `json:"unknown_ids"`
}

// Change records one segment whose text actually differs from the
// original.
type Change struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	OriginalText string `json:"original_text"`
	NewText      string `json:"new_text"`
}

// ValidationIssue describes one problem found while validating an edited
// flat map, such as a key that matches no node in the document.
type ValidationIssue struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	NodeID  string `json:"id,omitempty"`
}

// ValidationReport is the dry-run answer to "what would injection do with
// this flat map?". Status is "error" when the map carries keys the
// document cannot place; those same keys would make injection fail.
type ValidationReport struct {
	Status    string            `json:"status"`
	DiffStats DiffStats         `json:"diff_stats"`
	Changes   []Change          `json:"changes"`
	Errors    []ValidationIssue `json:"errors"`
}

// BuildValidationReport compares an edited flat map against a fresh
// extraction of the target document. It is a pure function: the caller
// extracts first (with the same policy injection would use) and passes
// the result in.
func BuildValidationReport(fresh *ExtractionResult, edited *FlatMap) *ValidationReport {
	report := &ValidationReport{
		Status:  ValidationStatusValid,
		Changes: []Change{},
		Errors:  []ValidationIssue{},
	}

	pathByID := make(map[string]string, len(fresh.Metadata.NodeInfo))
	for _, info := range fresh.Metadata.NodeInfo {
		pathByID[info.ID] = info.Path
	}

	stats := DiffStats{
		TotalNodes:   fresh.FlatMap.Len(),
		ProvidedKeys: edited.Len(),
	}
	for _, id := range fresh.FlatMap.IDs() {
		original, _ := fresh.FlatMap.Get(id)
		edit, ok := edited.Get(id)
		if !ok {
			stats.MissingKeys++
			stats.UnchangedNodes++
			continue
		}
		if edit == original {
			stats.UnchangedNodes++
			continue
		}
		stats.ModifiedNodes++
		report.Changes = append(report.Changes, Change{
			ID:           id,
			Path:         pathByID[id],
			OriginalText: original,
			NewText:      edit,
		})
	}
	for _, id := range edited.IDs() {
		if fresh.FlatMap.Has(id) {
			continue
		}
		stats.UnknownKeys++
		report.Errors = append(report.Errors, ValidationIssue{
			Error:   "unknown_id",
			Message: fmt.Sprintf("%q matches no extractable node in the document", id),
			NodeID:  id,
		})
	}

	if len(report.Errors) > 0 {
		report.Status = ValidationStatusError
	}
	report.DiffStats = stats
	return report
}
