package model

// Rank is a member's standing within a group.
type Rank string

const (
	RankOwner  Rank = "owner"
	RankAdmin  Rank = "admin"
	RankMember Rank = "member"
)

// Valid reports whether r is one of the recognised ranks.
func (r Rank) Valid() bool {
	switch r {
	case RankOwner, RankAdmin, RankMember:
		return true
	}
	return false
}

// Member is one entry in a group's member list.
type Member struct {
	Username   string `json:"username"   bson:"username"`
	Rank       Rank   `json:"rank"       bson:"rank"`
	ProfilePic string `json:"profilePic" bson:"profilePic"`
}

// Group represents a circle of users that schedules events together.
//
// EventIDs is the source of truth for which events belong to the group:
// every ID must reference an existing event whose Group field equals this
// group's Name. Events carry the group *name* (not the ID) as a
// denormalized back-reference, so renaming a group requires fanning the
// new name out to all of its events.
type Group struct {
	ID          string   `json:"id"          bson:"_id"`
	Name        string   `json:"name"        bson:"name"`
	EventIDs    []string `json:"eventIDs"    bson:"eventIDs"`
	Members     []Member `json:"members"     bson:"members"`
	Owner       string   `json:"owner"       bson:"owner"`
	Description string   `json:"description" bson:"description"`
	IconURL     string   `json:"iconURL"     bson:"iconURL"`
}
