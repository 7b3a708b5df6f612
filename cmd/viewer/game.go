package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/scenekit/anim"
	"github.com/milk9111/scenekit/framework"
	"github.com/milk9111/scenekit/maths"
	"github.com/milk9111/scenekit/physics"
	"github.com/milk9111/scenekit/scenes"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	frameDT = 1.0 / 60.0
)

type Game struct {
	sceneName string
	debug     bool
	frames    int

	renderer *framework.Renderer
	instance *scenes.Instance
	scripts  *anim.Runtime
	phys     *physics.World

	watcher *scenes.Watcher
	ui      *ebitenui.UI
	paused  bool
}

func NewGame(sceneName string, debug bool) (*Game, error) {
	if !strings.HasSuffix(sceneName, ".yaml") && !strings.HasSuffix(sceneName, ".yml") {
		sceneName += ".yaml"
	}

	g := &Game{
		sceneName: sceneName,
		debug:     debug,
	}
	if err := g.loadScene(); err != nil {
		return nil, err
	}

	// hot reload is best effort; the viewer still works without the
	// scene directories on disk
	watcher, err := scenes.NewWatcher("scenes", "scenes/scripts")
	if err != nil {
		log.Printf("viewer: scene watching disabled: %v", err)
	} else {
		g.watcher = watcher
	}

	g.ui = NewPauseUI(g)
	return g, nil
}

func (g *Game) loadScene() error {
	doc, err := scenes.LoadDoc(g.sceneName)
	if err != nil {
		return err
	}

	renderer := framework.NewRenderer()
	instance, err := scenes.Build(doc, renderer)
	if err != nil {
		return err
	}

	scripts := anim.NewRuntime(renderer.Transforms())
	for _, b := range instance.Scripts {
		src, err := scenes.LoadScript(b.Script)
		if err != nil {
			log.Printf("viewer: node=%s load script %s: %v", b.Node, b.Script, err)
			continue
		}
		if err := scripts.Attach(b.Node, b.Transform, src, b.Position, b.Rotation, b.Scale); err != nil {
			log.Printf("viewer: node=%s: %v", b.Node, err)
		}
	}

	var phys *physics.World
	if len(instance.Bodies) > 0 {
		phys = physics.NewWorld(physics.DefaultGravity)
		for _, b := range instance.Bodies {
			switch b.Spec.Kind {
			case "ground":
				phys.AddGround(float64(b.Position.Y), b.Spec.X0, b.Spec.X1)
			case "box", "":
				phys.AttachBox(b.Transform, b.Position, b.Spec.Width, b.Spec.Height, b.Spec.Mass)
			default:
				log.Printf("viewer: node=%s unknown body kind %q", b.Node, b.Spec.Kind)
			}
		}
	}

	g.renderer = renderer
	g.instance = instance
	g.scripts = scripts
	g.phys = phys
	return nil
}

// Reload rebuilds the scene from its document, dropping all runtime
// state. Used by hot reload and the pause menu.
func (g *Game) Reload() {
	if err := g.loadScene(); err != nil {
		log.Printf("viewer: reload %s: %v", g.sceneName, err)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		g.drainWatcher()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	g.scripts.Step(frameDT)
	if g.phys != nil {
		g.phys.Step(frameDT, g.renderer.Transforms())
	}
	if err := g.renderer.Update(); err != nil {
		// a scripted or hand-edited scene can introduce a cycle; keep
		// showing the last consistent frame instead of dying
		log.Printf("viewer: %v", err)
	}
	return nil
}

func (g *Game) drainWatcher() {
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("viewer: %s changed, reloading", name)
			g.Reload()
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("viewer: watcher: %v", err)
		default:
			return
		}
	}
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff})

	cam := g.renderer.ActiveCamera()
	if cam == nil {
		ebitenutil.DebugPrint(screen, "no camera in scene")
		return
	}

	w := float32(screen.Bounds().Dx())
	h := float32(screen.Bounds().Dy())

	for _, actor := range g.renderer.Actors() {
		mesh := g.renderer.Mesh(actor.Mesh)
		if mesh == nil {
			continue
		}
		col := actorColor(g.renderer.Material(actor.Material))

		corners := mesh.Corners()
		var pts [8]maths.Vec3
		var visible [8]bool
		for i, c := range corners {
			world := actor.World.TransformPoint(c)
			pts[i], visible[i] = cam.WorldToScreen(world)
		}
		for _, e := range boxEdges {
			a, b := e[0], e[1]
			if !visible[a] || !visible[b] {
				continue
			}
			vector.StrokeLine(screen,
				(pts[a].X*0.5+0.5)*w, (0.5-pts[a].Y*0.5)*h,
				(pts[b].X*0.5+0.5)*w, (0.5-pts[b].Y*0.5)*h,
				1, col, true)
		}
	}

	if g.debug {
		msg := fmt.Sprintf("scene: %s    actors: %d    scripts: %d    FPS: %.2f",
			g.instance.Name, len(g.renderer.Actors()), g.scripts.Len(), ebiten.ActualFPS())
		ebitenutil.DebugPrint(screen, msg)
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

func actorColor(m *framework.Material) color.Color {
	if m == nil {
		return colornames.White
	}
	c := m.Albedo
	if m.Emissive.Length() > 0 {
		c = c.Add(m.Emissive.Scale(0.5))
	}
	clamp := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 0xff
		}
		return uint8(v * 0xff)
	}
	return color.RGBA{R: clamp(c.X), G: clamp(c.Y), B: clamp(c.Z), A: 0xff}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
