package model

import "time"

// Attendance is a user's response to an event invitation.
type Attendance string

const (
	AttendanceInvited   Attendance = "Invited"
	AttendanceAttending Attendance = "Attending"
	AttendanceMissing   Attendance = "Missing"
)

// Repeat is an event's recurrence policy.
//
// The values are free-form strings on the wire (they come straight from the
// client), so the write paths validate them with Valid before a document is
// persisted. The recurrence engine leaves unrecognised values untouched
// rather than deleting them.
type Repeat string

const (
	RepeatNever   Repeat = "never"
	RepeatDaily   Repeat = "every day"
	RepeatWeekly  Repeat = "every week"
	RepeatMonthly Repeat = "every month"
)

// Valid reports whether r is one of the recognised repeat policies.
func (r Repeat) Valid() bool {
	switch r {
	case RepeatNever, RepeatDaily, RepeatWeekly, RepeatMonthly:
		return true
	}
	return false
}

// InvitedUser is one entry in an event's invitation list.
type InvitedUser struct {
	Username   string     `json:"username"   bson:"username"`
	Attendance Attendance `json:"attendance" bson:"attendance"`
	ProfilePic string     `json:"profilePic" bson:"profilePic"`
}

// Event represents a scheduled (possibly recurring) gathering.
//
// Group holds the owning group's name, not its ID; the owning group lists
// this event's ID in its EventIDs. Date is the next occurrence — the
// recurrence engine advances it (or deletes the event) once it has passed.
type Event struct {
	ID       string        `json:"id"       bson:"_id"`
	Title    string        `json:"title"    bson:"title"`
	Group    string        `json:"group"    bson:"group"`
	Users    []InvitedUser `json:"users"    bson:"users"`
	Owner    string        `json:"owner"    bson:"owner"`
	Date     time.Time     `json:"date"     bson:"date"`
	Repeat   Repeat        `json:"repeat"   bson:"repeat"`
	Location string        `json:"location" bson:"location"`
}
