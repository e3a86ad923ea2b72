// Package export writes computed layouts to external formats.
//
// Three sinks are provided: a JSON record for programmatic consumers,
// a CSV module schedule for spreadsheets and BOM tooling, and an SVG
// site plan for visual review. All sinks take an [io.Writer]; the
// Export* helpers wrap them for file-based output.
package export
