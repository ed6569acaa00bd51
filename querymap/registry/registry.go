package registry

import "fmt"

// UnknownEntityError is returned when no model is registered for an entity.
type UnknownEntityError struct {
	Entity string
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("no model registered for entity %q", e.Entity)
}

// UnknownRelationError is returned when an eager-load directive names a
// relation the model does not declare.
type UnknownRelationError struct {
	Entity   string
	Relation string
}

func (e UnknownRelationError) Error() string {
	return fmt.Sprintf("entity %q declares no relation %q", e.Entity, e.Relation)
}

// Registry is an explicit, injected mapping from logical entity name to its
// Model. There is no resolution by naming convention.
type Registry struct {
	models map[string]*Model
}

func New() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// Register adds a model, keyed by its entity name. Re-registering replaces.
func (r *Registry) Register(model *Model) *Registry {
	r.models[model.Entity] = model
	return r
}

// Resolve returns the model for entity.
func (r *Registry) Resolve(entity string) (*Model, error) {
	model, ok := r.models[entity]
	if !ok {
		return nil, UnknownEntityError{Entity: entity}
	}
	return model, nil
}

// Entities returns the registered entity names.
func (r *Registry) Entities() []string {
	entities := make([]string, 0, len(r.models))
	for entity := range r.models {
		entities = append(entities, entity)
	}
	return entities
}
