package workout

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}

// Export renders the entries as an ordered list of objects with named fields.
// The output is meant for copy-out, it is never written to disk.
func Export(entries []LogEntry, format ExportFormat) ([]byte, error) {
	if entries == nil {
		entries = []LogEntry{}
	}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(entries, "", "  ")
	case FormatYAML:
		return yaml.Marshal(entries)
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}
