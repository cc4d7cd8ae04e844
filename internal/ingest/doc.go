// Package ingest loads award, contract, and patent records from JSON Lines
// files. Each line is one record; malformed lines are counted and skipped
// rather than failing the whole file.
package ingest
