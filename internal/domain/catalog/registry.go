package catalog

import "fmt"

// Registry is the static, ordered catalog of operation descriptors.
// It is built once at startup and read-only afterwards, so lookups need
// no synchronization.
type Registry struct {
	ordered []Descriptor
	byName  map[string]*Descriptor
}

// NewRegistry builds a registry from the given descriptors, preserving
// their order. Duplicate or empty names are programmer errors and panic.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{
		ordered: make([]Descriptor, len(descriptors)),
		byName:  make(map[string]*Descriptor, len(descriptors)),
	}
	copy(r.ordered, descriptors)

	for i := range r.ordered {
		d := &r.ordered[i]
		if d.Name == "" {
			panic("catalog: descriptor with empty name")
		}
		if _, dup := r.byName[d.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate descriptor %q", d.Name))
		}
		r.byName[d.Name] = d
	}

	return r
}

// List returns the descriptors in declaration order.
// The returned slice is a copy; descriptors themselves are shared and
// must not be mutated.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Lookup returns the descriptor for an exact, case-sensitive name match.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.ordered)
}
