// Package system holds the per-tick systems that drive the scene graph.
package system

import (
	"github.com/milk9111/scenegraph/ecs"
	"go.uber.org/zap"
)

// Frame is the fixed per-tick pipeline: scripts and TTLs mutate, the
// transform pass propagates, caches are cleared, then marked entities are
// destroyed.
type Frame struct {
	*ecs.Scheduler
	Scripts     *ScriptSystem
	Destruction *DestructionSystem
}

type FrameConfig struct {
	// DT is the simulated seconds per tick exposed to scripts.
	DT     float64
	Logger *zap.Logger
	// Extra systems run after the transform pass and before caches are
	// cleared, so they can read this tick's deltas.
	Extra []ecs.System
}

func NewFrame(cfg FrameConfig) *Frame {
	f := &Frame{
		Scripts:     NewScriptSystem(cfg.DT, cfg.Logger),
		Destruction: NewDestructionSystem(cfg.Logger),
	}

	systems := []ecs.System{
		f.Scripts,
		NewTTLSystem(),
		NewTransformSystem(),
	}
	systems = append(systems, cfg.Extra...)
	systems = append(systems,
		NewCacheClearSystem(),
		f.Destruction,
	)
	f.Scheduler = ecs.NewScheduler(systems...)
	return f
}
