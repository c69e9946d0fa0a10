package component

// TTL is a frame-based time-to-live. When Frames reaches zero the entity is
// marked for destruction, taking its non-walled descendants with it.
type TTL struct {
	// Frames remaining (in update ticks)
	Frames int
}

var TTLComponent = NewComponent[TTL]("ttl")
