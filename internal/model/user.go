// Package model defines the documents stored by the application.
//
// Every struct carries both bson tags (how the document store persists it)
// and json tags (how the API serialises it). Field names in bson mirror the
// wire names so that documents stay filterable with dotted paths like
// "accountData.username".
package model

// AccountData is the credential part of a user document.
//
// Password holds the bcrypt hash, never the plaintext. It is excluded from
// JSON so user records can be returned from handlers without leaking it.
type AccountData struct {
	Email    string `json:"email"    bson:"email"`
	Username string `json:"username" bson:"username"`
	Password string `json:"-"        bson:"password"`
}

// PersonData is the optional profile part of a user document.
// All fields may be empty.
type PersonData struct {
	FullName    string `json:"fullName"    bson:"fullName"`
	Birthday    string `json:"birthday"    bson:"birthday"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Gender      string `json:"gender"      bson:"gender"`
	PictureURL  string `json:"pictureURL"  bson:"pictureURL"`
}

// User represents a registered account.
//
// The identity key is AccountData.Username — groups and events reference
// users by username, not by document ID. Username uniqueness is
// case-sensitive; email uniqueness is case-insensitive (emails are
// lower-cased at registration).
type User struct {
	ID          string      `json:"id"          bson:"_id"`
	AccountData AccountData `json:"accountData" bson:"accountData"`
	PersonData  PersonData  `json:"personData"  bson:"personData"`
}
