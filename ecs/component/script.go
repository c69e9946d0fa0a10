package component

// Script attaches a tengo motion script to an entity. Path is resolved by
// scenes.LoadScript.
type Script struct {
	Path string
	// Disabled stops the script after a runtime error so it is not retried
	// every tick.
	Disabled bool
}

var ScriptComponent = NewComponent[Script]("script")
