// Command platformcore is the playable demo binary: a window, a small
// hand-built level, and one actor driven by keyboard input. It wires
// the level/actor/telemetry packages together the way a real game loop
// would: handle input, collect the frame's obstacles, step the
// simulation, draw.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/platformcore/actor"
	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/config"
	"github.com/pthm-cable/platformcore/level"
	"github.com/pthm-cable/platformcore/mask"
	"github.com/pthm-cable/platformcore/telemetry"
)

const (
	screenWidth  = 1024
	screenHeight = 640
)

// demoGame holds everything the render loop touches each frame: the
// level, the actor, the reused obstacle map it was last collected
// into, and the telemetry/moment-detection sidecars.
type demoGame struct {
	world *level.World
	actor *actor.PhysicsActor
	om    *collision.ObstacleMap

	events  *telemetry.EventLog
	moments *telemetry.MomentDetector
	frame   int64
	camX    float64
	camY    float64
	lastIn  actor.InputSnapshot
}

func newDemoGame(cfg *config.Config, character string) *demoGame {
	w := level.NewWorld()

	ground := mask.NewBox(3000, 64)
	w.AddBrick(-1000, 380, level.Brick{Mask: ground, Layer: collision.LayerDefault})

	step := mask.NewBox(160, 100)
	w.AddBrick(400, 280, level.Brick{Mask: step, Layer: collision.LayerDefault})

	platform := mask.NewBox(140, 16)
	w.AddBrick(700, 240, level.Brick{Mask: platform, Layer: collision.LayerDefault, Flags: collision.FlagCloud})

	a := actor.New(cfg.Tunables(character))
	a.SetPosition(0, 379)

	events, err := telemetry.NewEventLog(cfg.Telemetry.OutputDir)
	if err != nil {
		slog.Warn("telemetry disabled", "error", err)
		events = nil
	}
	if events != nil {
		a.Subscribe(events.Observer())
	}

	return &demoGame{
		world:   w,
		actor:   a,
		om:      w.CollectFrame(),
		events:  events,
		moments: telemetry.NewMomentDetector(int64(cfg.Telemetry.LongAirtimeFrames)),
	}
}

func (g *demoGame) handleInput() {
	var in actor.InputSnapshot
	in.Left = rl.IsKeyDown(rl.KeyLeft)
	in.Right = rl.IsKeyDown(rl.KeyRight)
	in.Up = rl.IsKeyDown(rl.KeyUp)
	in.Down = rl.IsKeyDown(rl.KeyDown)
	in.Fire1 = rl.IsKeyDown(rl.KeySpace)

	in.LeftPressed = in.Left && !g.lastIn.Left
	in.RightPressed = in.Right && !g.lastIn.Right
	in.UpPressed = in.Up && !g.lastIn.Up
	in.DownPressed = in.Down && !g.lastIn.Down
	in.Fire1Pressed = in.Fire1 && !g.lastIn.Fire1

	g.actor.SetInput(in)
	g.lastIn = in
}

func (g *demoGame) update(dt float32) {
	g.handleInput()
	g.om = g.world.CollectFrame()
	g.actor.Update(float64(dt), g.om)
	g.frame++

	if g.events != nil {
		g.events.Tick(g.frame)
	}
	for _, m := range g.moments.Check(g.frame, g.actor) {
		m.Log()
	}

	px, py := g.actor.Position()
	g.camX = px - float64(screenWidth)/2
	g.camY = py - float64(screenHeight)/2
}

func (g *demoGame) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	for _, o := range g.om.Obstacles() {
		x := int32(float64(o.Left()) - g.camX)
		y := int32(float64(o.Top()) - g.camY)
		w := int32(o.Right() - o.Left() + 1)
		h := int32(o.Bottom() - o.Top() + 1)
		col := rl.DarkGray
		if !o.IsSolid() {
			col = rl.SkyBlue
		}
		rl.DrawRectangle(x, y, w, h, col)
	}

	px, py := g.actor.Position()
	rl.DrawCircle(int32(px-g.camX), int32(py-g.camY), 6, rl.Blue)

	rl.DrawText(fmt.Sprintf("state=%s gsp=%.1f midair=%v", g.actor.State(), g.actor.GroundSpeed(), g.actor.IsMidair()),
		10, 10, 18, rl.DarkGray)
	rl.DrawText("left/right/up/down to move, space to jump", 10, screenHeight-26, 16, rl.Gray)

	rl.EndDrawing()
}

func (g *demoGame) close() {
	if g.events != nil {
		if err := g.events.Close(); err != nil {
			slog.Error("failed to close event log", "error", err)
		}
	}
}

func main() {
	configPath := flag.String("config", "", "config YAML file (empty = embedded defaults)")
	character := flag.String("character", "default", "character tunable set to play as")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	config.MustInit(*configPath)
	cfg := config.Cfg()

	rl.InitWindow(screenWidth, screenHeight, "platformcore")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	g := newDemoGame(cfg, *character)
	defer g.close()

	for !rl.WindowShouldClose() {
		g.update(rl.GetFrameTime())
		g.draw()
	}
}
