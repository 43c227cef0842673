// Package app wires the project store, engine registry and environment
// overrides into an App, and exposes the operations the command line
// offers: executing association batches, listing and editing stored
// associations, seeding a project and describing engines.
package app
