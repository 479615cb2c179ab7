package teleport

import "time"

// Reconstructor folds an ordered event stream into closed sessions.
//
// It tracks a single active session shared by all players: a new
// tp.success closes whatever session is open, regardless of who owns it.
// The zero value is ready to use.
type Reconstructor struct {
	active *Session
	closed []Session
}

// NewReconstructor returns an empty Reconstructor.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{}
}

// Apply advances the state machine by one event. Events must be fed in
// ascending timestamp order.
func (r *Reconstructor) Apply(ev Event) {
	switch ev.Message {
	case MessageTeleportSuccess:
		r.closeActive()
		r.active = newSession(ev)

	case MessageGoalUpdated:
		if r.active == nil || ev.TPTarget == nil || *ev.TPTarget != r.active.Player {
			return
		}
		if r.active.Origin == nil && ev.TPOrigin != nil {
			r.active.Origin = ev.TPOrigin.clone()
		}
		if ev.Goal == nil {
			return
		}
		mode := Unknown
		if ev.Mode != nil {
			mode = *ev.Mode
		}
		r.active.recordGoal(ev.Timestamp, *ev.Goal, mode)

	case MessageTargetLeft:
		if r.active == nil || ev.Target == nil || *ev.Target != r.active.Player {
			return
		}
		r.closeAt(ev.Timestamp)
	}
}

// Active reports the currently open session, if any. The returned value is a
// snapshot; mutating it does not affect the reconstructor.
func (r *Reconstructor) Active() (Session, bool) {
	if r.active == nil {
		return Session{}, false
	}
	return *r.active, true
}

// Closed returns the sessions closed so far, in closing order.
func (r *Reconstructor) Closed() []Session {
	return r.closed
}

// Finish closes any session still open and returns every closed session.
func (r *Reconstructor) Finish() []Session {
	r.closeActive()
	return r.closed
}

// closeActive ends the open session at its last recorded activity.
func (r *Reconstructor) closeActive() {
	if r.active == nil {
		return
	}
	end := r.active.LastActivityTime
	if end.Before(r.active.StartTime) {
		end = r.active.StartTime
	}
	r.closeAt(end)
}

func (r *Reconstructor) closeAt(end time.Time) {
	r.active.EndTime = end
	r.closed = append(r.closed, *r.active)
	r.active = nil
}

// Reconstruct runs the full fold over events and returns the closed sessions
// in the order they were closed.
func Reconstruct(events []Event) []Session {
	r := NewReconstructor()
	for _, ev := range events {
		r.Apply(ev)
	}
	return r.Finish()
}
