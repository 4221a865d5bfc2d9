// Package session defines the explicit session value handed to the
// data-access layer. The signed-in identity is threaded as an argument
// instead of being read from process-wide state, so a logout can never race
// an in-flight call into operating on a stale user id.
package session

// Session identifies the signed-in user for the duration of one operation.
// A nil session means "not signed in".
type Session struct {
	UserID string
	Email  string
}

// Valid reports whether the session carries a usable identity.
func (s *Session) Valid() bool {
	return s != nil && s.UserID != ""
}
