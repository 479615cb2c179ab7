package teleport

import "time"

// Message kinds recognised by the reconstructor. Everything else is ignored.
const (
	MessageTeleportSuccess = "tp.success"
	MessageGoalUpdated     = "manager.goal_updated"
	MessageTargetLeft      = "tp.target_left"
)

// Unknown is substituted for a missing player or movement mode.
const Unknown = "unknown"

// Event is a single decoded log record. Only Timestamp and Message are
// guaranteed; the remaining fields are set depending on the message kind.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Target    *string   `json:"target,omitempty"`
	Origin    *Point    `json:"origin,omitempty"`
	DwellMs   *float64  `json:"dwellMs,omitempty"`
	Goal      *Point    `json:"goal,omitempty"`
	Mode      *string   `json:"mode,omitempty"`
	TPTarget  *string   `json:"tpTarget,omitempty"`
	TPOrigin  *Point    `json:"tpOrigin,omitempty"`
}
