package ecs

import "strconv"

// Entity packs a 32-bit index in the low bits and a 32-bit generation in the
// high bits. The zero Entity is the null handle; indices start at 1.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// Index returns the slot index of the handle.
func (e Entity) Index() uint32 {
	return uint32(e.id())
}

// Generation returns the generation the handle was issued with.
func (e Entity) Generation() uint32 {
	return uint32(e.generation())
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// IsZero reports whether e is the null handle.
func (e Entity) IsZero() bool {
	return e == 0
}
