// Package plasma holds the domain types shared across the simulation engine:
// per-cell state fields, control inputs, snapshots, physical constants and the
// sentinel errors of the stepping loop.
package plasma
