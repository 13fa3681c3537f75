package schema

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownModel reports a lookup for a model no source provides.
var ErrUnknownModel = errors.New("schema: unknown model")

// ModelSource resolves models by name.
type ModelSource interface {
	Model(name string) (*Model, error)
	Names() []string
}

// Sources chains model sources; the first source knowing a name wins.
type Sources []ModelSource

// Model implements ModelSource.
func (s Sources) Model(name string) (*Model, error) {
	for _, src := range s {
		if src == nil {
			continue
		}
		model, err := src.Model(name)
		if err == nil {
			return model, nil
		}
		if !errors.Is(err, ErrUnknownModel) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownModel, name)
}

// Names implements ModelSource. Names are sorted and deduplicated.
func (s Sources) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, src := range s {
		if src == nil {
			continue
		}
		for _, name := range src.Names() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
