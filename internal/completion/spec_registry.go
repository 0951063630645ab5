package completion

import "sort"

// CompletionSpec records which shell function completes a command, as
// registered with `complete -F function command`.
type CompletionSpec struct {
	Command  string
	Function string
	Options  []string // additional options like -o default
}

// SpecRegistry stores the completion specs a sourced script registered.
type SpecRegistry struct {
	specs map[string]CompletionSpec
}

// NewSpecRegistry creates a new SpecRegistry.
func NewSpecRegistry() *SpecRegistry {
	return &SpecRegistry{
		specs: make(map[string]CompletionSpec),
	}
}

// AddSpec adds or updates a completion specification.
func (r *SpecRegistry) AddSpec(spec CompletionSpec) {
	r.specs[spec.Command] = spec
}

// RemoveSpec removes a completion specification.
func (r *SpecRegistry) RemoveSpec(command string) {
	delete(r.specs, command)
}

// GetSpec retrieves a completion specification.
func (r *SpecRegistry) GetSpec(command string) (CompletionSpec, bool) {
	spec, ok := r.specs[command]
	return spec, ok
}

// ListSpecs returns all completion specifications sorted by command.
func (r *SpecRegistry) ListSpecs() []CompletionSpec {
	specs := make([]CompletionSpec, 0, len(r.specs))
	for _, spec := range r.specs {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Command < specs[j].Command
	})
	return specs
}
