package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/scenegraph/config"
	"github.com/milk9111/scenegraph/scenes"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "TOML config file (optional)")
	sceneName := flag.String("scene", "", "scene name in scenes/ (basename, .yaml optional)")
	scenePath := flag.String("file", "", "scene file path, overrides -scene")
	noWatch := flag.Bool("nowatch", false, "disable hot reload")
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

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	var watcher *scenes.Watcher
	if !*noWatch {
		watcher, err = scenes.NewWatcher(cfg.Scene.WatchDirs...)
		if err != nil {
			logger.Warn("hot reload disabled", zap.Strings("dirs", cfg.Scene.WatchDirs), zap.Error(err))
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	viewer, err := NewViewer(cfg, watcher, logger)
	if err != nil {
		logger.Fatal("start viewer", zap.Error(err))
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(int(math.Round(1 / cfg.Sim.DT())))

	if err := ebiten.RunGame(viewer); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
