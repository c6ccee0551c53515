package output

import (
	"encoding/csv"
	"io"
)

// PrintCSV writes data as CSV to the writer, using data's TableRenderer
// headers and rows. parsecctl scripts (e.g. bulk key audits piped into a
// spreadsheet) favor CSV over the boxed table output.
func PrintCSV(w io.Writer, data TableRenderer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(data.Headers()); err != nil {
		return err
	}
	for _, row := range data.Rows() {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
