package component

import "github.com/google/uuid"

// Name identifies an entity inside the scene instance that built it.
type Name struct {
	Value string
	Scene uuid.UUID
}

var NameComponent = NewComponent[Name]("name")
