package core

import (
	"encoding/json"
	"io"

	"github.com/dirsweep/dirsweep/internal/report"
)

// MarshalOutput pretty-prints a scan result as {count, results}.
func MarshalOutput(w io.Writer, out ScanOutput) error {
	return report.WriteJSON(w, out)
}

// UnmarshalOutput decodes a {count, results} document, useful for ingestion
// tests.
func UnmarshalOutput(r io.Reader) (ScanOutput, error) {
	var out ScanOutput
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, err
	}
	if out.Results == nil {
		out.Results = []string{}
	}
	return out, nil
}
