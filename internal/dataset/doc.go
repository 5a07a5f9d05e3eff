// Package dataset holds the in-memory table model shared by the inspector,
// filter and plot packages, the loaders that build tables from uploaded files,
// and the session-scoped store that keeps one table per upload.
//
// A Table is immutable once built. Every column has the same length and
// column names are unique; New rejects input that breaks either rule.
//
// Loaders:
//
//	.csv .tsv .txt   encoding/csv with delimiter sniffing
//	.xlsx            excelize, first sheet
//	.parquet         arrow-go parquet reader
//
// Sessions are addressed by UUID and expire lazily after an idle TTL.
package dataset
