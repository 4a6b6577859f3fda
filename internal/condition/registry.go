package condition

import (
	_ "embed"
	"sort"

	"github.com/thornwatch/d20combat/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed conditions.yaml
var standardTable []byte

// Registry is the immutable condition rule table. It is seeded once at
// construction and never changes afterward, so combat math is always
// reproducible from a fixed table.
type Registry struct {
	defs map[string]*Definition
}

type tableFile struct {
	Conditions []*Definition `yaml:"conditions"`
}

// NewRegistry builds a registry from the embedded standard table.
func NewRegistry() (*Registry, error) {
	return NewRegistryFromYAML(standardTable)
}

// NewRegistryFromYAML builds a registry from caller-supplied YAML, for
// embedders carrying house-rule condition tables.
func NewRegistryFromYAML(data []byte) (*Registry, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse condition table")
	}
	if len(file.Conditions) == 0 {
		return nil, errors.Validation("condition table is empty")
	}

	defs := make(map[string]*Definition, len(file.Conditions))
	for _, def := range file.Conditions {
		if def.Name == "" {
			return nil, errors.Validation("condition with empty name in table")
		}
		if _, exists := defs[def.Name]; exists {
			return nil, errors.Newf(errors.CodeAlreadyExists, "duplicate condition %q in table", def.Name)
		}
		defs[def.Name] = def
	}

	return &Registry{defs: defs}, nil
}

// Get returns the definition for name. Unknown names are an error, never
// silently ignored: an ignored condition would under-apply rule effects.
func (r *Registry) Get(name string) (*Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, errors.NotFoundf("condition %q not found", name)
	}
	return def, nil
}

// Names returns every condition name in the table, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
