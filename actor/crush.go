package actor

import "github.com/pthm-cable/platformcore/collision"

// isSmashed reports whether the actor is being crushed. The check is
// deliberately conservative: a false positive (dying when it shouldn't)
// is far worse for the player than a rare false negative. Only a single
// solid obstacle overlapping all four vertical-extreme sensors at once
// qualifies; an actor stuck at the intersection of two ceiling bricks
// will not be smashed.
func (a *PhysicsActor) isSmashed(om *collision.ObstacleMap) bool {
	if a.midair {
		return false
	}
	if !nearlyZero(a.ysp) {
		return false
	}

	pos := a.intPos()
	sa := a.activeSensor(sensorA)
	sb := a.activeSensor(sensorB)
	sc := a.activeSensor(sensorC)
	sd := a.activeSensor(sensorD)

	atA := sa.Check(pos, a.movmode, a.layer, om)
	atB := sb.Check(pos, a.movmode, a.layer, om)
	atC := sc.Check(pos, a.movmode, a.layer, om)
	atD := sd.Check(pos, a.movmode, a.layer, om)

	// find a solid obstacle that overlaps sensors A, B, C and D,
	// prioritizing obstacles at the top
	var obstacle *collision.Obstacle
	for _, o := range [4]*collision.Obstacle{atA, atB, atC, atD} {
		if o != nil && o.IsSolid() &&
			(obstacle == nil || o.Position.Y < obstacle.Position.Y) &&
			sa.OverlapsObstacle(pos, a.movmode, a.layer, o) &&
			sb.OverlapsObstacle(pos, a.movmode, a.layer, o) &&
			sc.OverlapsObstacle(pos, a.movmode, a.layer, o) &&
			sd.OverlapsObstacle(pos, a.movmode, a.layer, o) {
			obstacle = o
		}
	}
	if obstacle == nil {
		return false
	}

	// find the boundaries of the obstacle around the actor
	left := obstacle.GroundPosition(pos.X, pos.Y, collision.GroundRight)
	right := obstacle.GroundPosition(pos.X, pos.Y, collision.GroundLeft)
	top := obstacle.GroundPosition(pos.X, pos.Y, collision.GroundDown)
	bottom := obstacle.GroundPosition(pos.X, pos.Y, collision.GroundUp)
	height := bottom - top

	// distance of the actor to the nearest horizontal and vertical
	// edges of the obstacle
	dl := a.xpos - float64(left)
	dr := a.xpos - float64(right)
	dt := a.ypos - float64(top)
	db := a.ypos - float64(bottom)
	dh := minf(absf(dl), absf(dr))
	dv := minf(absf(dt), absf(db))

	// we may be inside a tube
	if height <= 0 {
		return false
	}

	// horizontally stuck into a wall is not a smash
	if dh < dv {
		return false
	}

	// near an edge the actor gets repositioned instead; testing dv here
	// generates false negatives (dv may be zero under a descending
	// platform)
	safetyMargin := maxInt(16, int(a.tunables.CapSpeed/60)) / 2
	if dh < float64(safetyMargin) {
		return false
	}

	return true
}
