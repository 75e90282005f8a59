// Command sandbox is an interactive raylib viewer for the simulation
// engine: an element palette, a brush radius slider, a perf overlay
// toggle and an ambient-temperature slider layered over the dirty-rect
// texture blit, grounded on cmd/potentialpreview/main.go's raygui
// panel layout and the root main.go's texture-update loop.
//
// Usage: go run ./cmd/sandbox [-config path.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm/sandpit/config"
	"github.com/pthm/sandpit/content"
	"github.com/pthm/sandpit/sim"
)

var configPath = flag.String("config", "", "Path to a YAML config overriding the embedded defaults")

const panelWidth = 220

// paletteEntry pairs a selectable element with the label shown in the
// palette list.
type paletteEntry struct {
	id    uint8
	label string
}

var palette = []paletteEntry{
	{content.IDSand, "Sand"},
	{content.IDWater, "Water"},
	{content.IDOil, "Oil"},
	{content.IDLava, "Lava"},
	{content.IDAcid, "Acid"},
	{content.IDStone, "Stone"},
	{content.IDWood, "Wood"},
	{content.IDMetal, "Metal"},
	{content.IDIce, "Ice"},
	{content.IDGunpowder, "Gunpowder"},
	{content.IDFire, "Fire"},
	{content.IDSpark, "Spark"},
	{content.IDDirt, "Dirt"},
	{content.IDSeed, "Seed"},
	{content.IDVoid, "Void (erase)"},
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	world, err := sim.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build world: %v\n", err)
		os.Exit(1)
	}
	world.EnablePerfMetrics(true)

	rl.InitWindow(int32(world.Width())+panelWidth, int32(world.Height()), "sandpit sandbox")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	img := rl.GenImageColor(world.Width(), world.Height(), rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(tex)

	var (
		rowBuf        []uint32
		selected      = 0
		brushRadius   = float32(4)
		ambientTemp   = world.AmbientTemperature()
		showPerf      = false
		paused        = false
	)

	for !rl.WindowShouldClose() {
		mouse := rl.GetMousePosition()
		overPanel := mouse.X >= float32(world.Width())

		if !overPanel {
			if rl.IsMouseButtonDown(rl.MouseLeftButton) {
				world.AddParticlesInRadius(int(mouse.X), int(mouse.Y), int(brushRadius), palette[selected].id, 0.7)
			}
			if rl.IsMouseButtonDown(rl.MouseRightButton) {
				world.RemoveParticle(int(mouse.X), int(mouse.Y))
			}
		}

		if !paused {
			world.Step()
		}

		for _, r := range world.CollectDirtyChunks() {
			px, py, w, h := world.RectPixelBounds(r)
			if w == 0 || h == 0 {
				continue
			}
			rowBuf = world.ExtractRectPixels(r, rowBuf)
			rl.UpdateTextureRec(tex, rl.Rectangle{X: float32(px), Y: float32(py), Width: float32(w), Height: float32(h)}, rowBuf)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		rl.DrawTexture(tex, 0, 0, rl.White)

		panelX := float32(world.Width() + 10)
		panelY := float32(10)
		rl.DrawRectangle(int32(world.Width()), 0, panelWidth, int32(world.Height()), rl.Color{R: 30, G: 30, B: 30, A: 255})

		rl.DrawText("Elements", int32(panelX), int32(panelY), 18, rl.RayWhite)
		panelY += 26
		for i, p := range palette {
			label := p.label
			if i == selected {
				label = "> " + label
			}
			if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 20, Height: 20}, label) {
				selected = i
			}
			panelY += 24
		}

		panelY += 10
		rl.DrawText("Brush radius", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		brushRadius = gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20},
			"1", "20",
			brushRadius, 1, 20,
		)
		rl.DrawText(fmt.Sprintf("%.0f", brushRadius), int32(panelX+float32(panelWidth-50)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 35

		rl.DrawText("Ambient temp", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newAmbient := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20},
			"-50", "200",
			ambientTemp, -50, 200,
		)
		rl.DrawText(fmt.Sprintf("%.0f", ambientTemp), int32(panelX+float32(panelWidth-50)), int32(panelY+2), 16, rl.DarkGray)
		if newAmbient != ambientTemp {
			ambientTemp = newAmbient
			world.SetAmbientTemperature(ambientTemp)
		}
		panelY += 35

		pauseLabel := "Pause"
		if paused {
			pauseLabel = "Resume"
		}
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 20, Height: 24}, pauseLabel) {
			paused = !paused
		}
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 20, Height: 24}, "Clear") {
			world.Clear()
		}
		panelY += 30

		perfLabel := "Perf overlay: off"
		if showPerf {
			perfLabel = "Perf overlay: on"
		}
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 20, Height: 24}, perfLabel) {
			showPerf = !showPerf
		}
		panelY += 34

		rl.DrawText(fmt.Sprintf("particles: %d", world.ParticleCount()), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		rl.DrawText(fmt.Sprintf("chunks: %d/%d", world.ActiveChunks(), world.TotalChunks()), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		rl.DrawText(fmt.Sprintf("rigid bodies: %d", world.RigidBodyCount()), int32(panelX), int32(panelY), 14, rl.Gray)

		if showPerf {
			stats := world.PerfStats()
			py := int32(world.Height()) - 110
			px := int32(10)
			rl.DrawRectangle(px-5, py-5, 260, 105, rl.Color{R: 0, G: 0, B: 0, A: 180})
			rl.DrawText(fmt.Sprintf("avg tick: %s", stats.AvgTickDuration.Round(time.Microsecond)), px, py, 14, rl.RayWhite)
			py += 16
			rl.DrawText(fmt.Sprintf("ticks/sec: %.0f", stats.TicksPerSecond), px, py, 14, rl.RayWhite)
			py += 16
			for _, phase := range []string{
				sim.PhaseRigidRasterise, sim.PhasePhysics, sim.PhaseBehaviour,
				sim.PhaseMoveReplay, sim.PhaseTemperature,
			} {
				rl.DrawText(fmt.Sprintf("%-16s %5.1f%%", phase, stats.PhasePct[phase]), px, py, 14, rl.RayWhite)
				py += 14
			}
		}

		rl.DrawFPS(int32(world.Width())-70, 10)
		rl.EndDrawing()
	}
}
