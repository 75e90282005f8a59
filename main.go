package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm/sandpit/config"
	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/sim"
	"github.com/pthm/sandpit/telemetry"
)

var (
	configPath  = flag.String("config", "", "Path to a YAML config overriding the embedded defaults")
	headless    = flag.Bool("headless", false, "Run without graphics (for logging/benchmarking)")
	maxTicks    = flag.Int("max-ticks", 0, "Stop after N ticks (0 = run forever, useful with -headless)")
	seed        = flag.Int64("seed", 0, "Override the RNG seed (0 = use config value)")
	logInterval = flag.Int("log", 0, "Log world state every N ticks (0 = disabled)")
	logFile     = flag.String("logfile", "", "Write logs to file instead of stdout")
	perfLog     = flag.Bool("perf", false, "Enable performance logging and CSV export")
	contentPath = flag.String("content", "", "Path to a JSON content bundle overriding the built-in elements")
)

func main() {
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		sim.SetLogWriter(f)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}

	world, err := buildWorld(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build world: %v\n", err)
		os.Exit(1)
	}

	if *perfLog {
		world.EnablePerfMetrics(true)
	}

	if *headless {
		runHeadless(world)
		return
	}

	runWindowed(world)
}

func buildWorld(cfg *config.Config) (*sim.World, error) {
	if *contentPath == "" {
		return sim.New(cfg)
	}

	data, err := os.ReadFile(*contentPath)
	if err != nil {
		return nil, fmt.Errorf("reading content bundle %q: %w", *contentPath, err)
	}
	b, err := content.ParseBundle(data)
	if err != nil {
		return nil, err
	}
	reg, err := content.Load(b)
	if err != nil {
		return nil, err
	}
	return sim.NewWithBundle(cfg, reg), nil
}

func runHeadless(world *sim.World) {
	sim.Logf("Starting headless simulation...")
	sim.Logf("  Grid: %dx%d, Max ticks: %d", world.Width(), world.Height(), *maxTicks)
	sim.Logf("")

	var perfOut *telemetry.PerfWriter
	if *perfLog {
		var err error
		perfOut, err = telemetry.NewPerfWriter("telemetry")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open telemetry output: %v\n", err)
		}
		defer perfOut.Close()
	}

	startTime := time.Now()
	lastReport := startTime
	reportInterval := 10 * time.Second

	for {
		if *maxTicks > 0 && int(world.Frame()) >= *maxTicks {
			sim.Logf("Reached max ticks (%d), stopping.", *maxTicks)
			break
		}

		world.Step()

		if *logInterval > 0 && int(world.Frame())%*logInterval == 0 {
			sim.Logf("=== Frame %d === particles=%d active_chunks=%d/%d",
				world.Frame(), world.ParticleCount(), world.ActiveChunks(), world.TotalChunks())
		}

		if *perfLog && world.Frame()%120 == 0 {
			stats := world.PerfStats()
			sim.Logf("=== Perf @ Frame %d === avg=%s ticks/sec=%.0f",
				world.Frame(), stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond)
			if perfOut != nil {
				if err := perfOut.Write(stats, int64(world.Frame())); err != nil {
					sim.Logf("telemetry write failed: %v", err)
				}
			}
		}

		if time.Since(lastReport) >= reportInterval {
			elapsed := time.Since(startTime)
			ticksPerSec := float64(world.Frame()) / elapsed.Seconds()
			sim.Logf("[PROGRESS] Frame %d | %.0f ticks/sec | Elapsed: %s",
				world.Frame(), ticksPerSec, elapsed.Round(time.Second))
			lastReport = time.Now()
		}
	}

	elapsed := time.Since(startTime)
	sim.Logf("")
	sim.Logf("Simulation complete.")
	sim.Logf("  Total frames: %d", world.Frame())
	sim.Logf("  Elapsed time: %s", elapsed.Round(time.Millisecond))
}

// runWindowed opens a bare raylib window that blits the dirty-rect
// pixel buffer and paints sand/water on click. The fuller
// palette/brush/perf-overlay viewer lives in cmd/sandbox.
func runWindowed(world *sim.World) {
	rl.InitWindow(int32(world.Width()), int32(world.Height()), "sandpit")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	img := rl.GenImageColor(world.Width(), world.Height(), rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(tex)

	var rowBuf []uint32

	for !rl.WindowShouldClose() {
		if rl.IsMouseButtonDown(rl.MouseLeftButton) {
			pos := rl.GetMousePosition()
			world.AddParticlesInRadius(int(pos.X), int(pos.Y), 3, content.IDSand, 0.6)
		}
		if rl.IsMouseButtonDown(rl.MouseRightButton) {
			pos := rl.GetMousePosition()
			world.AddParticlesInRadius(int(pos.X), int(pos.Y), 3, content.IDWater, 0.6)
		}

		world.Step()

		for _, r := range world.CollectDirtyChunks() {
			px, py, w, h := world.RectPixelBounds(r)
			if w == 0 || h == 0 {
				continue
			}
			rowBuf = world.ExtractRectPixels(r, rowBuf)
			rl.UpdateTextureRec(tex, rl.Rectangle{X: float32(px), Y: float32(py), Width: float32(w), Height: float32(h)}, rowBuf)
		}

		rl.BeginDrawing()
		rl.DrawTexture(tex, 0, 0, rl.White)
		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
}
