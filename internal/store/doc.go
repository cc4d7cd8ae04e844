// Package store persists detection runs in a local SQLite database. Each run
// records its summary row plus every emitted detection, including the full
// evidence bundle, so results can be listed and inspected after the batch
// finishes.
package store
