// Package descriptor holds the serializable form-descriptor tree consumed by
// client-side renderers. JSON names follow the renderer contract
// (controlName, controlValidations, ...). Empty collections that carry no
// meaning are omitted, while explicit false, zero and empty-list control
// values survive serialization; an unset control value is omitted entirely.
package descriptor
