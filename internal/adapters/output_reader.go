package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"reqlock/internal/ports"
	"reqlock/internal/types"
)

// OutputReaderAdapter reads lock artifacts back for inspection.
type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadLock(path string) ([]types.LockEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read lock file").
			WithCause(err)
	}
	var entries []types.LockEntry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		marker := ""
		if idx := strings.Index(line, ";"); idx >= 0 {
			marker = strings.TrimSpace(line[idx+1:])
			line = strings.TrimSpace(line[:idx])
		}
		parts := strings.SplitN(line, "==", 2)
		if len(parts) != 2 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("malformed lock line: " + line)
		}
		entries = append(entries, types.LockEntry{
			Package: strings.TrimSpace(parts[0]),
			Version: strings.TrimSpace(parts[1]),
			Marker:  marker,
		})
	}
	return entries, nil
}

func (a OutputReaderAdapter) ReadResolutionReport(path string) ([]types.ResolutionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read resolution report").
			WithCause(err)
	}
	var records []types.ResolutionRecord
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		records = append(records, parseResolutionLine(line))
	}
	return records, nil
}

func parseResolutionLine(line string) types.ResolutionRecord {
	var record types.ResolutionRecord
	for _, field := range splitReportFields(line) {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 {
			continue
		}
		value := strings.Trim(parts[1], `"`)
		switch parts[0] {
		case "dependency":
			record.Dependency = value
		case "action":
			record.Action = value
		case "value":
			record.Value = value
		case "reason":
			record.Reason = value
		case "owner":
			record.Owner = value
		case "expires_at":
			record.ExpiresAt = value
		}
	}
	return record
}

// splitReportFields splits on spaces outside double quotes so quoted
// reasons survive round-tripping.
func splitReportFields(line string) []string {
	var fields []string
	var current strings.Builder
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				fields = append(fields, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		fields = append(fields, current.String())
	}
	return fields
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
