package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapSource map[string]*Model

func (m mapSource) Model(name string) (*Model, error) {
	if model, ok := m[name]; ok {
		return model, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownModel, name)
}

func (m mapSource) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

type brokenSource struct{}

func (brokenSource) Model(string) (*Model, error) { return nil, errors.New("boom") }
func (brokenSource) Names() []string              { return nil }

func TestSourcesFirstMatchWins(t *testing.T) {
	first := &Model{Name: "User", Namespace: "structs"}
	second := &Model{Name: "User", Namespace: "api"}
	src := Sources{
		mapSource{"User": first},
		nil,
		mapSource{"User": second, "Role": {Name: "Role"}},
	}

	got, err := src.Model("User")
	if err != nil || got != first {
		t.Fatalf("expected first source model, got %+v, %v", got, err)
	}
	if got, err := src.Model("Role"); err != nil || got.Name != "Role" {
		t.Fatalf("expected fallthrough to second source, got %+v, %v", got, err)
	}
	if _, err := src.Model("Missing"); !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
	if diff := cmp.Diff([]string{"Role", "User"}, src.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSourcesStopsOnDefect(t *testing.T) {
	src := Sources{brokenSource{}, mapSource{"User": {Name: "User"}}}
	if _, err := src.Model("User"); err == nil || errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected source defect to surface, got %v", err)
	}
}
