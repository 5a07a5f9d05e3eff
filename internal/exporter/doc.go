// Package exporter writes dataset tables as CSV.
//
// Tables are written with their header row first. Numbers use the shortest
// representation that round-trips and missing cells are empty:
//
//	err := exporter.WriteTable(w, table, exporter.WriteOptions{})
//
// WriteFile does the same against a path, creating the parent directory and
// optionally prefixing a UTF-8 BOM so spreadsheet tools detect the encoding.
package exporter
