package workbook

import (
	"fmt"
	"strings"
)

// MissingSheetsError reports every required sheet absent from an upload.
// The whole upload is rejected; the user fixes the file and re-uploads.
type MissingSheetsError struct {
	Sheets []string
}

func (e *MissingSheetsError) Error() string {
	return "missing sheets: " + strings.Join(e.Sheets, ", ")
}

// MissingColumnError reports a required column absent from a validated sheet,
// named so the user can correlate it to the format contract.
type MissingColumnError struct {
	Sheet  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sheet %q is missing required column %q", e.Sheet, e.Column)
}
