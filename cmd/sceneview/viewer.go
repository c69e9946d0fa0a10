package main

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/scenegraph/config"
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/ecs/component"
	"github.com/milk9111/scenegraph/ecs/entity"
	"github.com/milk9111/scenegraph/ecs/render"
	"github.com/milk9111/scenegraph/ecs/system"
	"github.com/milk9111/scenegraph/scenes"
	"github.com/milk9111/scenegraph/transform"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const lightRadius = 5

// Viewer draws the scene graph as wireframes in an oblique projection.
type Viewer struct {
	cfg     *config.Config
	logger  *zap.Logger
	watcher *scenes.Watcher
	prims   *render.PrimitiveCache

	world   *ecs.World
	frame   *system.Frame
	ids     map[string]ecs.Entity
	sceneID uuid.UUID
	scene   string

	destroyed int
	lastErr   error
}

func NewViewer(cfg *config.Config, watcher *scenes.Watcher, logger *zap.Logger) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		logger:  logger,
		watcher: watcher,
		prims:   render.NewPrimitiveCache(),
	}
	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

// load builds the configured scene into a fresh world.
func (v *Viewer) load() error {
	scene, err := scenes.Resolve(v.cfg.Scene.Name, v.cfg.Scene.Path)
	if err != nil {
		return err
	}
	w := ecs.NewWorld()
	ids, sceneID, err := entity.BuildScene(w, scene)
	if err != nil {
		return err
	}

	v.world = w
	v.ids = ids
	v.sceneID = sceneID
	v.scene = scene.Name
	v.destroyed = 0
	v.frame = system.NewFrame(system.FrameConfig{DT: v.cfg.Sim.DT(), Logger: v.logger})
	v.logger.Info("scene loaded",
		zap.String("scene", scene.Name),
		zap.Stringer("instance", sceneID),
		zap.Int("entities", len(ids)),
	)
	return nil
}

func (v *Viewer) Update() error {
	v.pollChanges()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.reload()
	}

	v.frame.Update(v.world)
	for _, evt := range v.world.Events().Drain() {
		if evt.Kind == ecs.EventEntityDestroyed {
			v.destroyed++
		}
	}
	return nil
}

func (v *Viewer) pollChanges() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			switch change.Kind {
			case scenes.ChangeScene:
				v.logger.Info("scene changed", zap.String("path", change.Path))
				v.reload()
			case scenes.ChangeScript:
				v.logger.Info("script changed", zap.String("path", change.Path))
				v.frame.Scripts.Reset(v.world)
			}
		case err, ok := <-v.watcher.Errors:
			if ok {
				v.logger.Warn("watch", zap.Error(err))
			}
		default:
			return
		}
	}
}

// reload keeps the current scene running when the new one fails to load.
func (v *Viewer) reload() {
	if err := v.load(); err != nil {
		v.lastErr = err
		v.logger.Warn("reload failed", zap.Error(err))
		return
	}
	v.lastErr = nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	v.world.EachTransform(func(e ecs.Entity, t *ecs.Transform) {
		if parent, ok := v.world.Transform(t.Parent); ok {
			x0, y0 := v.project(parent.Position)
			x1, y1 := v.project(t.Position)
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, colornames.Dimgray, true)
		}

		clr := color.Color(colornames.Lightsteelblue)
		if t.State == transform.StateMarkedForDelete {
			clr = colornames.Orangered
		}
		shape := v.prims.Box()
		if len(t.Children) == 0 {
			shape = v.prims.Sphere()
		}
		model := t.LocalToWorldMatrix().Mul4(mgl32.Scale3D(0.3, 0.3, 0.3))
		for _, seg := range shape.Segments(model) {
			x0, y0 := v.project(seg.A)
			x1, y1 := v.project(seg.B)
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
		}

		if light, ok := ecs.Get(v.world, e, component.LightComponent.Kind()); ok {
			if c, _, ok := light.Color(); ok {
				x, y := v.project(t.Position)
				vector.DrawFilledCircle(screen, x, y, lightRadius, rgb(c), true)
			}
		}
	})

	status := fmt.Sprintf("scene: %s (%s)\nentities: %d  destroyed: %d\ntick: %d  FPS: %.1f\nR: reload",
		v.scene, v.sceneID.String()[:8], ecs.EntityCount(v.world), v.destroyed, v.frame.Scripts.Tick(), ebiten.ActualFPS())
	if v.lastErr != nil {
		status += "\nreload error: " + v.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 10)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Window.Width, v.cfg.Window.Height
}

// project maps world space to screen space, with depth pushed up and right.
func (v *Viewer) project(p mgl32.Vec3) (float32, float32) {
	zoom := v.cfg.Window.Zoom
	cx := float32(v.cfg.Window.Width) / 2
	cy := float32(v.cfg.Window.Height) * 0.6
	return cx + (p[0]+p[2]*0.5)*zoom, cy - (p[1]+p[2]*0.3)*zoom
}

func rgb(c mgl32.Vec3) color.RGBA {
	clamp := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1) * 255)
	}
	return color.RGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: 0xff}
}
