package structguard

import "strings"

// Format identifies a supported document format.
type Format string

// The format set is closed: the engine dispatches over exactly these two
// adapters rather than open-ended registration by callers.
const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// ParseFormat converts a user-supplied format string into a Format.
// Matching is case-insensitive. Returns EUNSUPPORTED for anything other
// than "xml" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FormatXML):
		return FormatXML, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", Errorf(EUNSUPPORTED, "unsupported format: %q (use 'xml' or 'json')", s)
	}
}

// FormatForPath guesses the format from a file extension.
// Returns EUNSUPPORTED when the extension is neither .xml nor .json.
func FormatForPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xml"):
		return FormatXML, nil
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, nil
	default:
		return "", Errorf(EUNSUPPORTED, "cannot infer format from %q (use --format)", path)
	}
}
