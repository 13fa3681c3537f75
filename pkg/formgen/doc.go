// Package formgen assembles form descriptors from schema models. A Generator
// walks the fields of a model, dispatches each field's tags to the control
// handlers, reads values from an optional instance, appends read-only audit
// controls and resolves every label through a messages.Resolver.
//
// The Generator is immutable after New and safe for concurrent use; each
// Generate call builds its own tree and hands it to the caller.
package formgen
