package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/collide2d/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "draw the broadphase tree and physics stats")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	sceneName := flag.String("scene", "boxes", "scene name in prefabs/scenes/ (basename, .yaml optional)")
	configName := flag.String("config", prefabs.DefaultConfigFile, "physics config in prefabs/")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("collide2d sandbox")

	game, err := NewGame(*sceneName, *configName, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
