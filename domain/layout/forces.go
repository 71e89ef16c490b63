package layout

import "math"

// minDistance guards the inverse-square law against coincident bodies
const minDistance = 1e-3

// applyForces accumulates all four force contributions into velocities.
// Collision is resolved positionally after the velocity forces.
func (s *Simulation) applyForces() {
	s.applyLinkForce()
	s.applyRepulsionForce()
	s.applyCenterForce()
	s.applyCollisionForce()
}

// applyLinkForce pulls connected bodies toward the link's target distance.
// Each endpoint absorbs half of the correction.
func (s *Simulation) applyLinkForce() {
	for _, l := range s.links {
		source := s.bodies[l.source]
		target := s.bodies[l.target]

		dx := target.X - source.X
		dy := target.Y - source.Y
		dist := math.Hypot(dx, dy)
		if dist < minDistance {
			// Coincident endpoints get a deterministic nudge apart.
			dx, dy, dist = minDistance, 0, minDistance
		}

		// Positive when stretched, negative when compressed.
		delta := (dist - l.distance) / dist * l.strength * s.alpha
		fx := dx * delta / 2
		fy := dy * delta / 2

		if !source.Pinned {
			source.VX += fx
			source.VY += fy
		}
		if !target.Pinned {
			target.VX -= fx
			target.VY -= fy
		}
	}
}

// applyRepulsionForce pushes every pair of bodies apart. Strength grows
// with the emitting body's degree so hubs keep their neighborhoods open.
func (s *Simulation) applyRepulsionForce() {
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			a := s.bodies[i]
			b := s.bodies[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			distSq := dx*dx + dy*dy
			if distSq < minDistance {
				distSq = minDistance
			}

			// Each body repels with strength scaled by its own degree.
			pushA := s.cfg.RepulsionBase * float64(1+b.Degree) * s.alpha / distSq
			pushB := s.cfg.RepulsionBase * float64(1+a.Degree) * s.alpha / distSq

			dist := math.Sqrt(distSq)
			ux, uy := dx/dist, dy/dist

			if !a.Pinned {
				a.VX -= ux * pushA
				a.VY -= uy * pushA
			}
			if !b.Pinned {
				b.VX += ux * pushB
				b.VY += uy * pushB
			}
		}
	}
}

// applyCenterForce weakly pulls everything toward the viewport center so
// disconnected components and isolated nodes do not drift off-canvas.
func (s *Simulation) applyCenterForce() {
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	for _, body := range s.bodies {
		if body.Pinned {
			continue
		}
		body.VX += (cx - body.X) * s.cfg.CenterStrength * s.alpha
		body.VY += (cy - body.Y) * s.cfg.CenterStrength * s.alpha
	}
}

// applyCollisionForce separates overlapping bodies by their combined radius
// plus padding. Overlap is corrected positionally, split between the two
// bodies unless one is pinned.
func (s *Simulation) applyCollisionForce() {
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			a := s.bodies[i]
			b := s.bodies[j]

			minSep := a.Radius + b.Radius + s.cfg.CollidePadding
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Hypot(dx, dy)
			if dist >= minSep {
				continue
			}
			if dist < minDistance {
				dx, dy, dist = minDistance, 0, minDistance
			}

			overlap := minSep - dist
			ux, uy := dx/dist, dy/dist

			switch {
			case a.Pinned && b.Pinned:
				// Both held by the user; leave them alone.
			case a.Pinned:
				b.X += ux * overlap
				b.Y += uy * overlap
			case b.Pinned:
				a.X -= ux * overlap
				a.Y -= uy * overlap
			default:
				a.X -= ux * overlap / 2
				a.Y -= uy * overlap / 2
				b.X += ux * overlap / 2
				b.Y += uy * overlap / 2
			}
		}
	}
}
