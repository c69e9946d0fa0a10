// Package component defines the type keys the ECS world stores components
// under, plus the plain data components used by the scene tools.
package component

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentKind is the store key for components of type T. Two kinds of the
// same T are distinct stores, even when they share a name.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponentKind allocates a kind named after T.
func NewComponentKind[T any]() ComponentKind[T] {
	return newKind[T]("")
}

func newKind[T any](name string) ComponentKind[T] {
	if name == "" {
		name = reflect.TypeOf((*T)(nil)).Elem().String()
	}
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1)), name: name}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Name() string {
	return k.name
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// String renders the kind as name#id for errors and log fields.
func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%s#%d", k.name, k.id)
}

// ComponentHandle is the package-level registration of a component type.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

// NewComponent registers a component type under name. An empty name falls
// back to the Go type name.
func NewComponent[T any](name string) ComponentHandle[T] {
	return ComponentHandle[T]{kind: newKind[T](name)}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
