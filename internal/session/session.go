package session

// Session identifies the signed-in actor for the lifetime of the process.
// Zero or one live per application instance.
type Session struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Phase is the observable authentication state. Initializing lasts only
// until Restore has run; afterwards the store alternates between
// Unauthenticated and Authenticated via login/register/logout.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	}

	return "unknown"
}
