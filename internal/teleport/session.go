package teleport

import "time"

// GoalRecord is a movement goal recorded while a session was open.
type GoalRecord struct {
	Timestamp time.Time
	Position  Point
	Mode      string
	// DistanceFromOrigin is nil when the session origin was unknown at the
	// time the goal was recorded.
	DistanceFromOrigin *float64
}

// Session is one teleport episode for a single player.
type Session struct {
	Player           string
	Origin           *Point
	DwellPlanned     *time.Duration
	StartTime        time.Time
	LastActivityTime time.Time
	EndTime          time.Time
	Goals            []GoalRecord
	ModeCounts       map[string]int
}

func newSession(ev Event) *Session {
	player := Unknown
	if ev.Target != nil {
		player = *ev.Target
	}

	s := &Session{
		Player:           player,
		StartTime:        ev.Timestamp,
		LastActivityTime: ev.Timestamp,
		ModeCounts:       make(map[string]int),
	}
	if ev.Origin != nil {
		s.Origin = ev.Origin.clone()
	}
	if ev.DwellMs != nil {
		d := time.Duration(*ev.DwellMs * float64(time.Millisecond))
		s.DwellPlanned = &d
	}
	return s
}

// recordGoal appends a goal and bumps the mode counter.
func (s *Session) recordGoal(ts time.Time, goal Point, mode string) {
	var dist *float64
	if s.Origin != nil {
		d := Distance(*s.Origin, goal)
		dist = &d
	}
	s.Goals = append(s.Goals, GoalRecord{
		Timestamp:          ts,
		Position:           *goal.clone(),
		Mode:               mode,
		DistanceFromOrigin: dist,
	})
	s.ModeCounts[mode]++
	s.LastActivityTime = ts
}
