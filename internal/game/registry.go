package game

import (
	"errors"
	"slices"
)

var ErrDuplicateActor = errors.New("actor already registered")

// Registry owns the authoritative actor list. Iteration order is
// registration order, which the infection scan relies on.
type Registry struct {
	order  []*Actor
	byID   map[string]*Actor
	byKind map[ActorKind][]*Actor
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Actor),
		byKind: make(map[ActorKind][]*Actor),
	}
}

// Insert registers an actor on spawn.
func (r *Registry) Insert(a *Actor) error {
	if _, ok := r.byID[a.ID]; ok {
		return ErrDuplicateActor
	}
	r.order = append(r.order, a)
	r.byID[a.ID] = a
	r.byKind[a.Kind] = append(r.byKind[a.Kind], a)
	return nil
}

// Remove unregisters an actor on despawn. Returns false if it was unknown.
func (r *Registry) Remove(id string) bool {
	a, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(x *Actor) bool { return x.ID == id })
	r.byKind[a.Kind] = slices.DeleteFunc(r.byKind[a.Kind], func(x *Actor) bool { return x.ID == id })
	return true
}

func (r *Registry) Get(id string) *Actor {
	return r.byID[id]
}

// Player returns the first registered player, or nil.
func (r *Registry) Player() *Actor {
	if ps := r.byKind[KindPlayer]; len(ps) > 0 {
		return ps[0]
	}
	return nil
}

// OfKind returns the actors of a kind in registration order.
// The slice is shared; callers must not modify it.
func (r *Registry) OfKind(k ActorKind) []*Actor {
	return r.byKind[k]
}

// All returns every actor in registration order.
func (r *Registry) All() []*Actor {
	return r.order
}

func (r *Registry) Len() int {
	return len(r.order)
}
