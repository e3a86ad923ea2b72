package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pvlab/sunrack/pkg/plan"
)

type record struct {
	TotalModules  int      `json:"total_modules"`
	CapacityKWp   float64  `json:"capacity_kwp"`
	GCRRatio      float64  `json:"gcr_ratio"`
	RowPitch      float64  `json:"row_pitch"`
	UsableAreaSqm float64  `json:"usable_area_sqm"`
	Modules       []module `json:"modules"`
}

type module struct {
	ID  int     `json:"id"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Row int     `json:"row"`
}

// WriteJSON encodes a layout result as JSON and writes it to w.
// Module coordinates are the placement centers in site meters.
func WriteJSON(r *plan.Result, w io.Writer) error {
	out := record{
		TotalModules:  r.TotalModules,
		CapacityKWp:   r.CapacityKWp,
		GCRRatio:      r.ActualGCR,
		RowPitch:      r.RowPitch,
		UsableAreaSqm: r.UsableArea,
		Modules:       make([]module, len(r.Placements)),
	}
	for i, p := range r.Placements {
		out.Modules[i] = module{ID: p.ID, X: p.Center.X, Y: p.Center.Y, Row: p.Row}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout result to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(r *plan.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(r, f)
}
