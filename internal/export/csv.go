// Package export encodes a widget's entries for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkordes/tags-widget/internal/domain"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"id", "value"}

// WriteCSV writes entries as CSV in collection order. Values are written
// exactly as stored, i.e. already HTML-escaped.
func WriteCSV(w io.Writer, entries []domain.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{strconv.Itoa(e.ID), e.Value}); err != nil {
			return fmt.Errorf("export.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WriteCSV: %w", err)
	}
	return nil
}
