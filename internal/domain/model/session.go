package model

import "fmt"

// Session identifies the caller of a request. It is passed explicitly to every
// operation that needs to know who is acting.
type Session struct {
	ID     string
	UserID int64
}

func NewUserSession(userID int64) Session {
	return Session{ID: fmt.Sprintf("user-%d", userID), UserID: userID}
}

func (s Session) Valid() bool {
	return s.ID != "" && s.UserID > 0
}
