// Package main implements sensorviz, an interactive debug viewer: it
// drives a PhysicsActor against a small obstacle layout with keyboard
// input, drawing the actor, its six oriented sensors and the live
// obstacle map every frame, with raygui sliders over a handful of
// tunables.
package main

import (
	"flag"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/platformcore/actor"
	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/config"
	"github.com/pthm-cable/platformcore/mask"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	viewWidth    = 860
	panelWidth   = windowWidth - viewWidth - 20
)

func buildScene() *collision.ObstacleMap {
	om := collision.NewObstacleMap()
	ground := mask.NewBox(2000, 64)
	om.Add(collision.NewObstacle(ground, collision.Point{X: -500, Y: 300}, collision.LayerDefault, 0))

	ramp := mask.NewBox(200, 120)
	om.Add(collision.NewObstacle(ramp, collision.Point{X: 300, Y: 180}, collision.LayerDefault, 0))

	cloud := mask.NewBox(120, 16)
	om.Add(collision.NewObstacle(cloud, collision.Point{X: 600, Y: 220}, collision.LayerDefault, collision.FlagCloud))

	return om
}

func readInput(prev actor.InputSnapshot) actor.InputSnapshot {
	var in actor.InputSnapshot
	in.Left = rl.IsKeyDown(rl.KeyLeft)
	in.Right = rl.IsKeyDown(rl.KeyRight)
	in.Up = rl.IsKeyDown(rl.KeyUp)
	in.Down = rl.IsKeyDown(rl.KeyDown)
	in.Fire1 = rl.IsKeyDown(rl.KeySpace)

	in.LeftPressed = in.Left && !prev.Left
	in.RightPressed = in.Right && !prev.Right
	in.UpPressed = in.Up && !prev.Up
	in.DownPressed = in.Down && !prev.Down
	in.Fire1Pressed = in.Fire1 && !prev.Fire1

	return in
}

func drawObstacles(om *collision.ObstacleMap, camX, camY float64) {
	for _, o := range om.Obstacles() {
		x := float32(float64(o.Left()) - camX)
		y := float32(float64(o.Top()) - camY)
		w := float32(o.Right() - o.Left() + 1)
		h := float32(o.Bottom() - o.Top() + 1)

		col := rl.DarkGray
		if !o.IsSolid() {
			col = rl.SkyBlue
		}
		rl.DrawRectangleLines(int32(x), int32(y), int32(w), int32(h), col)
	}
}

func drawSensors(snap actor.DebugSnapshot, camX, camY float64) {
	for name, seg := range snap.ActiveSensors {
		x1 := float32(float64(seg[0]) - camX)
		y1 := float32(float64(seg[1]) - camY)
		x2 := float32(float64(seg[2]) - camX)
		y2 := float32(float64(seg[3]) - camY)
		rl.DrawLineEx(rl.Vector2{X: x1, Y: y1}, rl.Vector2{X: x2, Y: y2}, 2, rl.Red)
		rl.DrawText(name, int32(x1)+3, int32(y1)-12, 10, rl.Maroon)
	}

	for _, p := range []collision.Point{snap.AngleSensorLeft, snap.AngleSensorRight} {
		cx := float32(float64(p.X) - camX)
		cy := float32(float64(p.Y) - camY)
		rl.DrawCircle(int32(cx), int32(cy), 3, rl.Lime)
	}
}

func main() {
	configPath := flag.String("config", "", "base config YAML file (empty = embedded defaults)")
	character := flag.String("character", "default", "character tunable set to load")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		panic(fmt.Sprintf("sensorviz: failed to load config: %v", err))
	}
	tunables := config.Cfg().Tunables(*character)

	rl.InitWindow(windowWidth, windowHeight, "sensorviz")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	a := actor.New(tunables)
	a.SetPosition(0, 299)
	om := buildScene()

	var input actor.InputSnapshot

	accMul := float32(1.0)
	topSpeedMul := float32(1.0)
	jmpMul := float32(1.0)
	grvMul := float32(1.0)

	camX, camY := -200.0, -150.0

	for !rl.WindowShouldClose() {
		input = readInput(input)
		a.SetInput(input)
		a.Update(float64(rl.GetFrameTime()), om)

		px, py := a.Position()
		camX, camY = px-float64(viewWidth)/2, py-float64(windowHeight)/2

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawObstacles(om, camX, camY)
		drawSensors(a.DebugSnapshot(), camX, camY)

		ax := float32(px - camX)
		ay := float32(py - camY)
		rl.DrawCircle(int32(ax), int32(ay), 4, rl.Blue)

		rl.DrawText(fmt.Sprintf("state=%s mode=%v angle=%.1f gsp=%.1f midair=%v",
			a.State(), a.MovMode(), a.Angle(), a.GroundSpeed(), a.IsMidair()), 10, 10, 16, rl.DarkGray)

		panelX := float32(viewWidth + 10)
		panelY := float32(10)
		rl.DrawText("Character Multipliers", int32(panelX), int32(panelY), 18, rl.DarkGray)
		panelY += 30

		newAcc := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20}, "0.5", "2.0", accMul, 0.5, 2.0)
		rl.DrawText(fmt.Sprintf("acc %.2f", newAcc), int32(panelX), int32(panelY)+22, 14, rl.Gray)
		panelY += 45

		newTop := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20}, "0.5", "2.0", topSpeedMul, 0.5, 2.0)
		rl.DrawText(fmt.Sprintf("top %.2f", newTop), int32(panelX), int32(panelY)+22, 14, rl.Gray)
		panelY += 45

		newJmp := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20}, "0.5", "1.5", jmpMul, 0.5, 1.5)
		rl.DrawText(fmt.Sprintf("jmp %.2f", newJmp), int32(panelX), int32(panelY)+22, 14, rl.Gray)
		panelY += 45

		newGrv := gui.SliderBar(rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 60, Height: 20}, "0.5", "1.5", grvMul, 0.5, 1.5)
		rl.DrawText(fmt.Sprintf("grv %.2f", newGrv), int32(panelX), int32(panelY)+22, 14, rl.Gray)
		panelY += 45

		if newAcc != accMul || newTop != topSpeedMul || newJmp != jmpMul || newGrv != grvMul {
			accMul, topSpeedMul, jmpMul, grvMul = newAcc, newTop, newJmp, newGrv
			t := tunables
			t.Acc *= float64(accMul)
			t.TopSpeed *= float64(topSpeedMul)
			t.Jmp *= float64(jmpMul)
			t.Grv *= float64(grvMul)
			a.SetTunables(t)
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 140, Height: 30}, "Reset Position") {
			a.SetPosition(0, 299)
			a.SetSpeed(0, 0)
			a.SetGroundSpeed(0)
		}

		rl.EndDrawing()
	}
}
