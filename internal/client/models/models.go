// Package models defines the client-side entities cached in the local store.
//
// Relations are kept by identity string (Session.UserID, User.ProfileID) and
// resolved through the store, never through in-memory pointers. Fields that
// only the store maintains (keys, bookkeeping timestamps) are not part of
// the wire representation; see package codec.
package models

import "time"

// SessionKey is the fixed key of the single Session record.
const SessionKey = "session"

// Session is the authenticated session. At most one exists at a time.
type Session struct {
	Key       string
	SessionID string
	// UserID references the signed-in User; empty until the login body is
	// persisted.
	UserID    string
	CreatedAt time.Time
}

// User is an account known to the client, either the signed-in user or one
// whose profile was fetched.
type User struct {
	UserID        string
	Username      string
	Emails        []string
	TermsAccepted time.Time

	// ProfileID references the Profile with the same user id, if fetched.
	ProfileID string
	// ViewableUserIDs lists the accounts this user may view, in server order.
	ViewableUserIDs []string

	UpdatedAt time.Time
}

// Patient is the patient section of a profile. Dates are kept verbatim as
// the server sends them.
type Patient struct {
	Birthday      string
	DiagnosisDate string
	AboutMe       string
}

// Profile is the metadata profile of a user.
type Profile struct {
	UserID    string
	FullName  string
	ShortName string
	Patient   *Patient

	UpdatedAt time.Time
}

// Note is a message from the notes endpoint.
type Note struct {
	ID string
	// UserID is the account whose notes were fetched.
	UserID string
	// AuthorID is the user that wrote the note.
	AuthorID    string
	GroupID     string
	ParentID    string
	AuthorName  string
	MessageText string

	Timestamp    time.Time
	CreatedTime  time.Time
	ModifiedTime time.Time

	Replies []string

	UpdatedAt time.Time
}
