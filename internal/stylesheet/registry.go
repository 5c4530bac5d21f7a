package stylesheet

// Registry maps category keys such as "fontSize" or "grid" to sections,
// keeping the order in which categories were added.
type Registry struct {
	keys     []string
	sections map[string]Section
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sections: make(map[string]Section)}
}

// Set binds key to section. Re-binding an existing key keeps its position.
func (r *Registry) Set(key string, section Section) {
	if _, exists := r.sections[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.sections[key] = section
}

// GetCategory returns the section registered under key, or nil when the key
// is unknown.
func (r *Registry) GetCategory(key string) Section {
	if r == nil {
		return nil
	}
	section, ok := r.sections[key]
	if !ok {
		return nil
	}
	return section
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.sections[key]
	return ok
}

// Keys returns category keys in registration order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Groups maps a functional group name to an ordered list of category keys.
type Groups map[string][]string

// FilterByFunctionalGroup resolves each category of the named group and
// returns the concatenated selector names in group order. An unknown group
// yields an empty list, and unknown categories contribute nothing.
func FilterByFunctionalGroup(r *Registry, groups Groups, groupKey string) []string {
	selectors := []string{}
	for _, category := range groups[groupKey] {
		section := r.GetCategory(category)
		if section == nil {
			continue
		}
		selectors = append(selectors, section.Selectors()...)
	}
	return selectors
}
