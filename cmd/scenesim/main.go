package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/scenegraph/archeworld"
	"github.com/milk9111/scenegraph/config"
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/ecs/entity"
	"github.com/milk9111/scenegraph/ecs/system"
	"github.com/milk9111/scenegraph/scenes"
	"github.com/milk9111/scenegraph/transform"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "TOML config file (optional)")
	sceneName := flag.String("scene", "", "scene name in scenes/ (basename, .yaml optional)")
	scenePath := flag.String("file", "", "scene file path, overrides -scene")
	ticks := flag.Int("ticks", -1, "number of ticks to run")
	backend := flag.String("backend", "", "registry backend: sparse or arche")
	realtime := flag.Bool("realtime", false, "pace ticks at the configured tick rate")
	logLevel := flag.String("log-level", "", "log level override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *sceneName != "" {
		cfg.Scene.Name = *sceneName
	}
	if *scenePath != "" {
		cfg.Scene.Path = *scenePath
	}
	if *ticks >= 0 {
		cfg.Sim.Ticks = *ticks
	}
	if *backend != "" {
		cfg.Sim.Backend = *backend
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	scene, err := scenes.Resolve(cfg.Scene.Name, cfg.Scene.Path)
	if err != nil {
		logger.Fatal("load scene", zap.Error(err))
	}

	var pace <-chan time.Time
	if *realtime {
		ticker := time.NewTicker(cfg.Sim.TickRate)
		defer ticker.Stop()
		pace = ticker.C
	}

	start := time.Now()
	switch cfg.Sim.Backend {
	case "arche":
		err = runArche(cfg, scene, pace, logger)
	default:
		err = runSparse(cfg, scene, pace, logger)
	}
	if err != nil {
		logger.Fatal("simulate", zap.Error(err))
	}
	logger.Info("done",
		zap.String("scene", scene.Name),
		zap.String("backend", cfg.Sim.Backend),
		zap.Int("ticks", cfg.Sim.Ticks),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func runSparse(cfg *config.Config, scene *scenes.Scene, pace <-chan time.Time, logger *zap.Logger) error {
	w := ecs.NewWorld()
	ids, sceneID, err := entity.BuildScene(w, scene)
	if err != nil {
		return err
	}
	logger.Info("scene built",
		zap.String("scene", scene.Name),
		zap.Stringer("instance", sceneID),
		zap.Int("entities", len(ids)),
	)

	names := make(map[ecs.Entity]string, len(ids))
	for name, e := range ids {
		names[e] = name
	}

	frame := system.NewFrame(system.FrameConfig{DT: cfg.Sim.DT(), Logger: logger})
	for i := 0; i < cfg.Sim.Ticks; i++ {
		if pace != nil {
			<-pace
		}
		frame.Update(w)
		for _, evt := range w.Events().Drain() {
			logger.Debug("event",
				zap.Int("tick", i),
				zap.String("kind", string(evt.Kind)),
				zap.String("entity", names[evt.Entity]),
			)
		}
	}

	report(logger, ids, func(e ecs.Entity) (*ecs.Transform, bool) { return w.Transform(e) })
	logger.Info("alive", zap.Int("entities", ecs.EntityCount(w)))
	return nil
}

// runArche drives the hierarchy only: each root drifts along +Z at one unit
// per second, and TTLs count down in ticks.
func runArche(cfg *config.Config, scene *scenes.Scene, pace <-chan time.Time, logger *zap.Logger) error {
	w := archeworld.New()
	ids, err := entity.BuildHierarchy[archeworld.Entity](w, scene)
	if err != nil {
		return err
	}
	logger.Info("scene built", zap.String("scene", scene.Name), zap.Int("entities", len(ids)))

	ttl := make(map[archeworld.Entity]int)
	for _, spec := range scene.Entities {
		if spec.TTL > 0 {
			ttl[ids[spec.Name]] = spec.TTL
		}
	}

	drift := mgl32.Vec3{0, 0, float32(cfg.Sim.DT())}
	for i := 0; i < cfg.Sim.Ticks; i++ {
		if pace != nil {
			<-pace
		}
		w.EachTransform(func(e archeworld.Entity, t *archeworld.Transform) {
			if t.IsRoot() {
				t.Translate(drift)
			}
		})
		for e, n := range ttl {
			if n--; n > 0 {
				ttl[e] = n
				continue
			}
			delete(ttl, e)
			if t, ok := w.Transform(e); ok {
				t.State = transform.StateMarkedForDelete
			}
		}

		transform.PropagateTransform[archeworld.Entity](w)
		transform.ClearCachedTransformations[archeworld.Entity](w)
		transform.PropagateMarkForDestruction[archeworld.Entity](w)
		destroyed, orphaned := system.DestroyMarked[archeworld.Entity](w)
		if len(destroyed) > 0 {
			logger.Debug("destroyed marked entities",
				zap.Int("tick", i),
				zap.Int("destroyed", len(destroyed)),
				zap.Int("orphaned", len(orphaned)),
			)
		}
	}

	report(logger, ids, w.Transform)
	logger.Info("alive", zap.Int("entities", w.Count()))
	return nil
}

func report[E comparable](logger *zap.Logger, ids map[string]E, lookup func(E) (*transform.Transform[E], bool)) {
	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t, ok := lookup(ids[name])
		if !ok {
			logger.Info("entity", zap.String("name", name), zap.Bool("alive", false))
			continue
		}
		logger.Info("entity",
			zap.String("name", name),
			zap.String("position", formatVec3(t.Position)),
			zap.String("scale", formatVec3(t.Scale)),
			zap.Int("children", len(t.Children)),
		)
	}
}

func formatVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
