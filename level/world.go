package level

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/platformcore/collision"
)

// World wraps an ark ECS world holding brick entities plus the
// collision.ObstacleMap collected from them each frame. The typed
// entity mapper/filter pair is built once at construction, and the
// ObstacleMap is reused across frames to avoid per-frame allocation.
type World struct {
	world *ecs.World

	posMap *ecs.Map1[Position]
	mapper *ecs.Map2[Position, Brick]
	filter *ecs.Filter2[Position, Brick]

	obstacles *collision.ObstacleMap
}

// NewWorld constructs an empty brick world.
func NewWorld() *World {
	w := ecs.NewWorld()
	return &World{
		world:     w,
		posMap:    ecs.NewMap1[Position](w),
		mapper:    ecs.NewMap2[Position, Brick](w),
		filter:    ecs.NewFilter2[Position, Brick](w),
		obstacles: collision.NewObstacleMap(),
	}
}

// AddBrick spawns a new brick entity at the given world position and
// returns its entity handle so the caller can later RemoveBrick it (for
// a destructible block, a switch-activated door, and so on).
func (w *World) AddBrick(x, y int, b Brick) ecs.Entity {
	return w.mapper.NewEntity(&Position{X: x, Y: y}, &b)
}

// RemoveBrick deletes a brick entity.
func (w *World) RemoveBrick(e ecs.Entity) {
	w.mapper.Remove(e)
}

// MoveBrick updates a non-static brick's position in place; used for
// moving platforms and crushers.
func (w *World) MoveBrick(e ecs.Entity, x, y int) {
	pos := w.posMap.Get(e)
	pos.X, pos.Y = x, y
}

// CollectFrame clears the reused ObstacleMap and repopulates it from
// every currently live brick entity, translating each into a
// collision.Obstacle at its current position. The resulting map is
// valid only until the next call.
func (w *World) CollectFrame() *collision.ObstacleMap {
	w.obstacles.Clear()

	query := w.filter.Query()
	for query.Next() {
		pos, brick := query.Get()
		o := collision.NewObstacle(brick.Mask, collision.Point{X: pos.X, Y: pos.Y}, brick.Layer, brick.Flags)
		w.obstacles.Add(o)
	}

	return w.obstacles
}

// Len returns the number of live brick entities.
func (w *World) Len() int {
	n := 0
	query := w.filter.Query()
	for query.Next() {
		n++
	}
	return n
}
