package schema

import "errors"

// Sentinel errors describing why an instance field could not be read. All of
// them mean "value absent" to the engine; any other error is a defect.
var (
	ErrNilInstance   = errors.New("schema: instance is nil")
	ErrFieldNotFound = errors.New("schema: field not found")
	ErrNilValue      = errors.New("schema: field value is nil")
)

// FieldReader reads a named field from a data instance.
type FieldReader interface {
	ReadField(instance any, name string) (any, error)
}

// FieldReaderFunc adapts a function to FieldReader.
type FieldReaderFunc func(instance any, name string) (any, error)

// ReadField implements FieldReader.
func (f FieldReaderFunc) ReadField(instance any, name string) (any, error) {
	return f(instance, name)
}

// IsAbsent reports whether err is one of the expected absence reasons.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNilInstance) || errors.Is(err, ErrFieldNotFound) || errors.Is(err, ErrNilValue)
}
