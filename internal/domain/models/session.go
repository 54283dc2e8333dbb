package models

// User is the profile returned by the auth endpoints.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
}

// Session is an authenticated client session: the bearer token replayed on
// every non-auth request plus the cached profile. It is an immutable value;
// login and logout produce new sessions rather than mutating one in place.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session carries a usable token.
func (s Session) Valid() bool { return s.Token != "" }
