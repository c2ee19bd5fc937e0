// Package level sits above the physics core: it owns brick entities in
// an ECS world and every frame collects them into a fresh
// collision.ObstacleMap for the physics actor to query. It also runs
// the flows the core leaves to its caller, like respawning after a
// death and drowning below the water level.
package level

import (
	"github.com/pthm-cable/platformcore/collision"
	"github.com/pthm-cable/platformcore/mask"
)

// Position is the brick's world placement, the ECS component backing
// collision.Obstacle.Position. Kept as its own component (rather than
// storing collision.Point directly) so other systems can query bricks
// by position alone without pulling in the mask reference.
type Position struct {
	X, Y int
}

// Brick is the spawn-time record the level owns: a shared mask
// reference plus the collision flags and layer tag that turn it into a
// collision.Obstacle at collection time. Masks are shared immutable
// values; many bricks may reference the same one.
type Brick struct {
	Mask  *mask.Mask
	Layer collision.Layer
	Flags collision.Flags
}
