package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"

	"github.com/lixenwraith/broadside/audio"
	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/engine"
	"github.com/lixenwraith/broadside/input"
	"github.com/lixenwraith/broadside/network"
	"github.com/lixenwraith/broadside/physics"
	"github.com/lixenwraith/broadside/render"
	"github.com/lixenwraith/broadside/render/renderers"
	"github.com/lixenwraith/broadside/scene"
	"github.com/lixenwraith/broadside/service"
	"github.com/lixenwraith/broadside/status"
)

var (
	sceneFlag    = flag.String("scene", "", "Scene file (YAML), empty loads the built-in skirmish")
	tickFlag     = flag.Duration("tick", engine.DefaultTickInterval, "Fixed simulation step")
	scaleFlag    = flag.Float64("scale", render.DefaultScale, "Chart rows per world unit")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/broadside.log")
	spectateFlag = flag.String("spectate", "", "Serve the spectator feed on this address, overrides "+network.EnvAddress)
	profileFlag  = flag.String("profile", "", "Write a profile to the working directory: cpu or mem")
	headlessFlag = flag.Int("headless", 0, "Run N ticks without a terminal and print the outcome")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	switch *profileFlag {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileFlag)
		return 2
	}

	desc, err := loadScene(*sceneFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scene: %v\n", err)
		return 1
	}

	reg := status.NewRegistry()
	match, err := scene.Build(desc, physics.NewWorld(), reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scene: %v\n", err)
		return 1
	}

	if *headlessFlag > 0 {
		return runHeadless(match, reg, *headlessFlag, *tickFlag)
	}
	return runTerminal(match, reg)
}

func loadScene(path string) (*scene.Description, error) {
	if path == "" {
		return scene.Default(), nil
	}
	return scene.LoadFile(path)
}

// runHeadless steps the simulation back to back and reports the final fleet state
func runHeadless(match *scene.Match, reg *status.Registry, ticks int, dt time.Duration) int {
	g := engine.NewGame(engine.Config{
		Scene:   match.Scene,
		Context: match.Context,
		Pools:   match.Pools,
		Status:  reg,
	})
	for i := 0; i < ticks; i++ {
		g.FixedUpdate(dt)
	}

	snap := g.Latest()
	fmt.Printf("%s: %d ticks, %.2fs game time\n", match.Name, snap.Tick, snap.GameTime.Seconds())
	for _, o := range snap.Objects {
		if o.Kind == "cannonball" {
			continue
		}
		state := "afloat"
		if o.Sunk {
			state = "sunk"
		}
		fmt.Printf("  %-10s %-6s health %3d  %s  (%.1f, %.1f, %.1f)\n",
			o.Name, o.Kind, o.Health, state, o.Position[0], o.Position[1], o.Position[2])
	}
	for _, line := range reg.Lines() {
		fmt.Println("  " + line)
	}
	return 0
}

func runTerminal(match *scene.Match, reg *status.Registry) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	core.SetCrashScreen(screen)

	// Errors are printed once the terminal is restored
	var failure error
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
		if failure != nil {
			fmt.Fprintf(os.Stderr, "services: %v\n", failure)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	screen.HideCursor()

	keys := input.NewState(input.DefaultHold)
	g := engine.NewGame(engine.Config{
		Scene:   match.Scene,
		Context: match.Context,
		Pools:   match.Pools,
		Input:   keys,
		Status:  reg,
	})

	// Services
	audioSvc := audio.NewService()
	spectateSvc := network.NewService()
	spectateCfg := network.ConfigFromEnv()
	if *spectateFlag != "" {
		spectateCfg.Address = *spectateFlag
	}

	hub := service.NewHub()
	if err := hub.Register(audioSvc); err != nil {
		log.Printf("[main] %v", err)
	}
	if err := hub.Register(spectateSvc, spectateCfg, reg); err != nil {
		log.Printf("[main] %v", err)
	}
	if failure = hub.InitAll(); failure != nil {
		return 1
	}
	if failure = hub.StartAll(); failure != nil {
		return 1
	}
	defer hub.StopAll()

	g.RegisterEventHandler(audioSvc)
	g.Subscribe(spectateSvc.Publish)

	orchestrator := render.NewRenderOrchestrator(screen)
	labels := renderers.RegisterDefaults(orchestrator)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var muted atomic.Bool
	resized := make(chan struct{}, 1)

	// Input polling owns PollEvent, it returns nil once the screen is finalized
	core.Go(func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventResize:
				select {
				case resized <- struct{}{}:
				default:
				}
			case *tcell.EventKey:
				k, ok := input.FromTcell(ev)
				if !ok {
					continue
				}
				switch k {
				case input.KeyQuit, input.KeyEscape:
					cancel()
					return
				case input.KeyMute:
					muted.Store(audioSvc.ToggleMute())
				case input.KeyLabels:
					labels.Toggle()
				default:
					keys.Press(k, time.Now())
				}
			}
		}
	})

	scheduler := engine.NewClockScheduler(g.FixedUpdate, nil, *tickFlag, reg)
	scheduler.Start(ctx)
	defer scheduler.Stop()
	log.Printf("[main] %s running at %v per tick", match.Name, scheduler.Interval())

	for {
		select {
		case <-ctx.Done():
			for _, line := range reg.Lines() {
				log.Printf("[status] %s", line)
			}
			return 0
		case <-resized:
			orchestrator.Resize()
		case <-scheduler.Ticked():
		}

		w, h := screen.Size()
		rc := render.NewRenderContext(g.Latest(), w, h, *scaleFlag)
		rc.Muted = muted.Load()
		orchestrator.RenderFrame(rc)
	}
}
