package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/common"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/system"
	"github.com/milk9111/collide2d/prefabs"
)

var background = color.NRGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff}

type Game struct {
	frames int
	paused bool

	sceneName  string
	configName string
	config     *prefabs.ConfigStore

	world      *ecs.World
	scheduler  *ecs.Scheduler
	collisions *system.CollisionSystem
	scene      *prefabs.Scene

	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher
	changes <-chan string
}

func NewGame(sceneName, configName string, debug bool) (*Game, error) {
	cfg, err := prefabs.LoadConfig(configName)
	if err != nil {
		log.Printf("failed to load config %s, using defaults: %v", configName, err)
		cfg = collision.DefaultConfig()
	}

	g := &Game{
		sceneName:  sceneName,
		configName: configName,
		config:     prefabs.NewConfigStore(cfg),
	}
	if err := g.loadScene(); err != nil {
		return nil, err
	}
	g.collisions.Debug = debug
	g.pauseUI = NewPauseUI(g)
	g.watch()
	return g, nil
}

// loadScene builds a fresh world and systems from the scene file.
func (g *Game) loadScene() error {
	spec, err := prefabs.LoadSceneSpec(g.sceneName)
	if err != nil {
		return err
	}
	world := ecs.NewWorld()
	scene, err := prefabs.BuildScene(world, spec, g.config.Config())
	if err != nil {
		return err
	}

	debug := g.collisions != nil && g.collisions.Debug
	collisions := system.NewCollisionSystem(g.config, system.DefaultStep)
	collisions.Debug = debug

	g.world = world
	g.scene = scene
	g.collisions = collisions
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewControlSystem(g.config),
		system.NewMotionSystem(g.config, system.DefaultStep),
		collisions,
		system.NewCameraSystem(),
	)
	log.Printf("loaded scene %s with %d entities", scene.Name, len(scene.Entities))
	return nil
}

func (g *Game) reloadScene() {
	if err := g.loadScene(); err != nil {
		log.Printf("failed to reload scene %s: %v", g.sceneName, err)
	}
}

func (g *Game) toggleSolver() collision.SolverStrategy {
	cfg := g.config.Config()
	if cfg.Solver == collision.SolverArcade {
		cfg.Solver = collision.SolverRealistic
	} else {
		cfg.Solver = collision.SolverArcade
	}
	g.config.Store(cfg)
	return cfg.Solver
}

// watch hot reloads prefabs from disk when the directories exist.
func (g *Game) watch() {
	var dirs []string
	for _, dir := range []string{"prefabs", filepath.Join("prefabs", "scenes")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
		return
	}
	g.watcher = w
	g.changes = g.config.Follow(w, g.configName)
}

func (g *Game) pollChanges() {
	scenePath := filepath.Base(prefabs.ScenePath(g.sceneName))
	for {
		select {
		case path, ok := <-g.changes:
			if !ok {
				g.changes = nil
				return
			}
			if filepath.Base(path) == scenePath {
				g.reloadScene()
			}
		default:
			return
		}
	}
}

func (g *Game) spawnAtCursor() {
	x, y := ebiten.CursorPosition()
	pos := system.ScreenToWorld(g.world, float64(x), float64(y))
	spec := prefabs.EntityBuildSpec{
		Name: "spawned",
		Components: map[string]any{
			"transform": map[string]any{"x": pos.X, "y": pos.Y},
			"body":      map[string]any{"bounciness": 0.4},
			"collider":  map[string]any{"shape": "circle", "radius": 10},
		},
	}
	if _, err := prefabs.BuildEntity(g.world, spec, g.config.Config(), g.scene.Groups); err != nil {
		log.Printf("failed to spawn: %v", err)
	}
}

func (g *Game) Update() error {
	g.frames++
	if g.changes != nil {
		g.pollChanges()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.collisions.Debug = !g.collisions.Debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reloadScene()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.spawnAtCursor()
	}

	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.scheduler.Draw(g.world, screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Solver: %s", g.frames, ebiten.ActualFPS(), g.config.Config().Solver))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
