package service

import "github.com/iliyamo/hotel-reservation/internal/model"

// Policy is the capability check consulted before a modify request may
// touch privileged fields. Callers select the policy matching the
// actor's role per call site; adding a new actor kind (for example a
// channel-manager integration) means adding a policy, not touching the
// orchestrator.
type Policy interface {
	// AllowChangeRoomType reports whether the actor may move the
	// reservation to a different room type.
	AllowChangeRoomType() bool
	// AllowAssignRoom reports whether the actor may pin the
	// reservation to a concrete room.
	AllowAssignRoom() bool
	// AllowStatusChangeTo reports whether the actor may request a
	// transition to the given status.
	AllowStatusChangeTo(to model.Status) bool
}

// StaffPolicy grants the full edit surface to hotel staff.
type StaffPolicy struct{}

func (StaffPolicy) AllowChangeRoomType() bool               { return true }
func (StaffPolicy) AllowAssignRoom() bool                   { return true }
func (StaffPolicy) AllowStatusChangeTo(_ model.Status) bool { return true }

// GuestPolicy restricts guests to their own scalar fields; room type,
// room assignment and status changes all go through staff.
type GuestPolicy struct{}

func (GuestPolicy) AllowChangeRoomType() bool               { return false }
func (GuestPolicy) AllowAssignRoom() bool                   { return false }
func (GuestPolicy) AllowStatusChangeTo(_ model.Status) bool { return false }
