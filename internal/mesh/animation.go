package mesh

import "math"

// ValueAt samples the track at time t (seconds), clamping outside the key
// range and interpolating linearly inside it.
func (tr Track) ValueAt(t float64) float64 {
	keys := tr.Keys
	if len(keys) == 0 {
		return 0
	}
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		k0, k1 := keys[i-1], keys[i]
		if t <= k1.Time {
			span := k1.Time - k0.Time
			if span <= 0 {
				return k1.Value
			}
			f := (t - k0.Time) / span
			return k0.Value + (k1.Value-k0.Value)*f
		}
	}
	return last.Value
}

// Apply samples every track of the clip at time t and folds the result into
// poses, keyed by part name. Parts without a pose entry start from
// IdentityPose.
func (c Clip) Apply(t float64, poses map[string]Pose) {
	for _, tr := range c.Tracks {
		p, ok := poses[tr.Part]
		if !ok {
			p = IdentityPose()
		}
		v := tr.ValueAt(t)
		switch tr.Property {
		case PropertyOffsetX:
			p.Offset.X += v
		case PropertyOffsetY:
			p.Offset.Y += v
		case PropertyOffsetZ:
			p.Offset.Z += v
		case PropertyRotationX:
			p.Rotation.X += v
		case PropertyRotationY:
			p.Rotation.Y += v
		case PropertyRotationZ:
			p.Rotation.Z += v
		case PropertyScale:
			p.Scale *= v
		}
		poses[tr.Part] = p
	}
}

// Action is one clip being played by a Player.
type Action struct {
	Clip *Clip
	Time float64 // local clip time in seconds
	Loop bool
}

// Player plays every clip of a model at once, the way the scene animates a
// freshly placed grenade. It is the per-instance animation state; the Model it
// reads from is shared.
type Player struct {
	Actions   []Action
	TimeScale float64
	Elapsed   float64 // scaled seconds advanced so far
}

// NewPlayer creates a player with every clip of m queued as a looping action.
// A model without clips yields a player that does nothing.
func NewPlayer(m *Model, timeScale float64) *Player {
	p := &Player{TimeScale: timeScale}
	if m == nil {
		return p
	}
	for i := range m.Clips {
		p.Actions = append(p.Actions, Action{Clip: &m.Clips[i], Loop: true})
	}
	return p
}

// Advance moves every action forward by dt*TimeScale seconds.
func (p *Player) Advance(dt float64) {
	step := dt * p.TimeScale
	if step <= 0 {
		return
	}
	p.Elapsed += step
	for i := range p.Actions {
		a := &p.Actions[i]
		a.Time += step
		if a.Loop {
			a.Time = math.Mod(a.Time, a.Clip.Duration)
		} else if a.Time > a.Clip.Duration {
			a.Time = a.Clip.Duration
		}
	}
}

// Poses returns the combined pose of every animated part at the current time.
func (p *Player) Poses() map[string]Pose {
	poses := make(map[string]Pose)
	for _, a := range p.Actions {
		a.Clip.Apply(a.Time, poses)
	}
	return poses
}
