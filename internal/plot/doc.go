// Package plot validates chart configurations, renders them against a
// dataset table and encodes the result as PNG.
//
// A render cycle is
//
//	spec, err := plot.Validate(cfg)
//	ch, err := plot.Render(table, spec)
//	defer ch.Close()
//	ch.Customize(overrides)
//	png, err := ch.Encode(plot.FormatPNG)
//
// Validate rejects configurations that miss a required axis before any
// data is touched. Render aggregates the table into a Figure and binds it to
// a surface that stays owned by the Chart until Close. Customize only
// changes labels, so it may be applied any number of times before encoding.
//
// The heatmap is always drawn over every numeric column of the table and
// ignores the selected axes apart from the default title.
package plot
