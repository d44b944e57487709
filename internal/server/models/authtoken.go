package models

import "time"

// AuthToken is the server-side registry row for an issued session token.
// A user holds at most one row at a time; login replaces the previous one.
type AuthToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}
