package snapshot

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// WriteReport writes rows to the specified file as an indented JSON array,
// replacing any existing content.
func WriteReport(filename string, rows []ReportRow) error {
	if rows == nil {
		rows = []ReportRow{}
	}

	content, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return errors.WithMessage(err, "Failed to marshal report")
	}

	if err = os.WriteFile(filename, append(content, '\n'), 0644); err != nil {
		return errors.WithMessagef(err, "Failed to write report to %v", filename)
	}

	return nil
}
