package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hubastard/buddy/config"
	"github.com/hubastard/buddy/desktop"
	"github.com/hubastard/buddy/engine/assets"
	"github.com/hubastard/buddy/engine/core"
	glbackend "github.com/hubastard/buddy/engine/gfx/gl"
	"github.com/hubastard/buddy/engine/gfx/renderer2d"
	"github.com/hubastard/buddy/engine/logging"
	"github.com/hubastard/buddy/engine/platform"
	"github.com/hubastard/buddy/engine/profiler"
	"github.com/hubastard/buddy/engine/taskqueue"
	"github.com/hubastard/buddy/engine/text"
	"github.com/hubastard/buddy/scripting/bindings"
	"github.com/hubastard/buddy/scripting/registry"
)

type App struct {
	cfg     config.Config
	cfgPath string
	log     zerolog.Logger

	reg     *registry.Registry
	queue   *taskqueue.Queue
	fetcher *bindings.Fetcher

	font    *text.Font
	images  *bindings.ImageCache
	host    *desktop.Host
	watcher *registry.Watcher
	stop    context.CancelFunc
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 12)

	vs, fs, err := assets.Renderer2DShaders()
	if err != nil {
		a.log.Fatal().Err(err).Msg("shaders")
	}
	r2d, err := renderer2d.New(e.Renderer, vs, fs, 20000)
	if err != nil {
		a.log.Fatal().Err(err).Msg("renderer2d")
	}
	a.log.Info().Str("vendor", e.Renderer.GPUVendor()).Str("renderer", e.Renderer.GPURenderer()).Msg("gpu")

	if a.cfg.Window.FontFile != "" {
		a.font, err = text.LoadFile(e.Renderer, a.cfg.Window.FontFile, a.cfg.Window.FontSize)
	} else {
		a.font, err = text.Default(e.Renderer, a.cfg.Window.FontSize)
	}
	if err != nil {
		a.log.Fatal().Err(err).Msg("font")
	}

	a.images = bindings.NewImageCache(bindings.ImageCacheOptions{
		Uploader:  e.Renderer,
		Fetcher:   a.fetcher,
		MaxCached: a.cfg.Images.MaxCached,
		Logger:    a.log,
	})
	a.host = desktop.New(desktop.Options{
		Logger:             a.log,
		Registry:           a.reg,
		Queue:              a.queue,
		Images:             a.images,
		Fetcher:            a.fetcher,
		Text:               a.font,
		Theme:              a.cfg.Theme,
		Shortcuts:          a.cfg.Shortcuts,
		MaxConcurrentRuns:  a.cfg.Scripts.MaxConcurrentRuns,
		MaxCallStack:       a.cfg.Scripts.MaxCallStack,
		OnShortcutsChanged: a.saveShortcuts,
	})
	e.Layers.Push(desktop.NewLayer(a.host, r2d, a.font, a.log))

	if a.cfg.Scripts.Watch {
		w, err := a.reg.Watch(registry.WatchOptions{Logger: a.log, Notify: a.host.RequestRescan})
		if err != nil {
			a.log.Warn().Err(err).Msg("script directory not watched")
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		a.watcher, a.stop = w, cancel
		go w.Run(ctx)
	}
}

func (a *App) saveShortcuts(m map[string]string) {
	a.cfg.Shortcuts = m
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		a.log.Error().Err(err).Msg("save shortcuts")
	}
}

func (a *App) OnUpdate(e *core.Engine, dt float64)    {}
func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event)  {}

func (a *App) OnShutdown(e *core.Engine) {
	if a.stop != nil {
		a.stop()
		_ = a.watcher.Close()
	}
	// runs have no cancellation; give finishing ones a moment
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.host.Scheduler().Wait(ctx); err != nil {
		a.log.Warn().Int("runs", len(a.host.Scheduler().Active())).Msg("exiting with scripts still running")
	}
	a.images.Close()
	a.font.Close()
}

func main() {
	defPath, err := config.DefaultPath()
	if err != nil {
		defPath = "buddy.toml"
	}
	cfgPath := flag.String("config", defPath, "settings file")
	scriptsDir := flag.String("scripts", "", "scripts directory, overrides the settings file")
	flag.Parse()

	cfg, cfgErr := config.Load(*cfgPath)
	log := logging.New(logging.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("settings")
	}
	if *scriptsDir != "" {
		cfg.Scripts.Dir = *scriptsDir
	}

	dir, err := cfg.ScriptsDir()
	if err != nil {
		log.Fatal().Err(err).Msg("scripts dir")
	}
	reg, err := registry.New(registry.Options{Dir: dir, Extension: cfg.Scripts.Extension, Logger: log})
	if err != nil {
		log.Fatal().Err(err).Msg("registry")
	}
	_ = reg.Rescan()

	app := &App{
		cfg:     cfg,
		cfgPath: *cfgPath,
		log:     log,
		reg:     reg,
		queue:   taskqueue.New(),
		fetcher: bindings.NewFetcher(cfg.HTTP.Timeout.Duration, log),
	}

	var win *platform.GLFWWindow
	newWindow := func(c core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(c, logging.Component(log, "platform"))
		win = w
		return w, err
	}
	newRenderer := func(w core.Window, c core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(w, c)
	}

	engineCfg := core.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		VSync:      cfg.Window.VSync,
		ClearColor: cfg.Window.ClearColor,
	}
	err = core.Run(app, engineCfg, log, newWindow, newRenderer)
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		log.Error().Err(err).Msg("engine")
		os.Exit(1)
	}
}
