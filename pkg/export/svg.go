package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/plan"
)

const svgPadding = 5.0 // meters of whitespace around the site boundary

// SVGOption configures the SVG site plan renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	usable    geom.Polygon
	scale     float64
	showRows  bool
	showIDs   bool
	siteColor string
	modColor  string
}

// WithUsableBoundary draws the eroded usable region as a dashed outline.
func WithUsableBoundary(p geom.Polygon) SVGOption {
	return func(r *svgRenderer) { r.usable = p }
}

// WithScale sets pixels per meter. Default is 8.
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithRowShading alternates the module fill per row.
func WithRowShading() SVGOption { return func(r *svgRenderer) { r.showRows = true } }

// WithModuleIDs labels each module rectangle with its ID.
func WithModuleIDs() SVGOption { return func(r *svgRenderer) { r.showIDs = true } }

// RenderSVG draws a site plan: the site boundary, optionally the usable
// boundary, and one rectangle per placed module. The site y axis points
// north; SVG y points down, so the drawing is flipped vertically.
func RenderSVG(site geom.Polygon, r *plan.Result, cfg plan.Config, opts ...SVGOption) []byte {
	sr := svgRenderer{scale: 8, siteColor: "#2b6cb0", modColor: "#1a365d"}
	for _, opt := range opts {
		opt(&sr)
	}

	minP, maxP := site.BoundingBox()
	minX, maxY := minP.X-svgPadding, maxP.Y+svgPadding
	width := (maxP.X - minP.X + 2*svgPadding) * sr.scale
	height := (maxP.Y - minP.Y + 2*svgPadding) * sr.scale

	tx := func(x float64) float64 { return (x - minX) * sr.scale }
	ty := func(y float64) float64 { return (maxY - y) * sr.scale }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <rect width="100%" height="100%" fill="#f7fafc"/>` + "\n")

	renderBoundary(&buf, site, tx, ty, sr.siteColor, false)
	if !sr.usable.IsEmpty() {
		renderBoundary(&buf, sr.usable, tx, ty, "#718096", true)
	}

	w := cfg.ModuleWidth * sr.scale
	l := cfg.ModuleLength * math.Cos(cfg.TiltAngle*math.Pi/180) * sr.scale
	for _, p := range r.Placements {
		fill := sr.modColor
		if sr.showRows && p.Row%2 == 0 {
			fill = "#2c5282"
		}
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#ffffff" stroke-width="0.5"/>`+"\n",
			tx(p.Center.X)-w/2, ty(p.Center.Y)-l/2, w, l, fill)
		if sr.showIDs {
			fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" fill="#ffffff" text-anchor="middle" dominant-baseline="central">%d</text>`+"\n",
				tx(p.Center.X), ty(p.Center.Y), l*0.4, p.ID)
		}
	}

	fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="%.1f" fill="#4a5568">%d modules / %.1f kWp</text>`+"\n",
		svgPadding*sr.scale*0.4, height-svgPadding*sr.scale*0.3, 2*sr.scale, r.TotalModules, r.CapacityKWp)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// ExportSVG writes a site plan to an SVG file at path.
func ExportSVG(site geom.Polygon, r *plan.Result, cfg plan.Config, path string, opts ...SVGOption) error {
	data := RenderSVG(site, r, cfg, opts...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderBoundary(buf *bytes.Buffer, p geom.Polygon, tx, ty func(float64) float64, color string, dashed bool) {
	buf.WriteString(`  <polygon points="`)
	for i, v := range p.Vertices {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.2f,%.2f", tx(v.X), ty(v.Y))
	}
	dash := ""
	if dashed {
		dash = ` stroke-dasharray="6,4"`
	}
	fmt.Fprintf(buf, `" fill="none" stroke="%s" stroke-width="1.5"%s/>`+"\n", color, dash)
}
