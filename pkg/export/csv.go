package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pvlab/sunrack/pkg/plan"
)

// WriteCSV writes a module schedule to w, one row per placed module.
// Columns are id, row, center x/y in meters, and rotation in degrees.
func WriteCSV(r *plan.Result, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "row", "x_m", "y_m", "rotation_deg"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range r.Placements {
		rec := []string{
			strconv.Itoa(p.ID),
			strconv.Itoa(p.Row),
			strconv.FormatFloat(p.Center.X, 'f', 3, 64),
			strconv.FormatFloat(p.Center.Y, 'f', 3, 64),
			strconv.FormatFloat(p.Rotation, 'f', 1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write module %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes a module schedule to a CSV file at path.
func ExportCSV(r *plan.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(r, f)
}
