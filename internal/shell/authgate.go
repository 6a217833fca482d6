package shell

import (
	"github.com/healthhack/healthmate/internal/models"
)

// Decision is the outcome of an authorization check: either the navigation
// is allowed, or it must be redirected.
type Decision struct {
	Allow      bool
	RedirectTo models.ViewName
}

// Authorize decides whether target is reachable given the session state.
// Dashboard and profile require a session and redirect anonymous users to
// login. Everything else is reachable regardless of session state; in
// particular login and signup stay reachable with a session present (the
// shell does not force users away from them).
func Authorize(target models.ViewName, session *models.Session) Decision {
	switch target {
	case models.ViewDashboard, models.ViewProfile:
		if session == nil {
			return Decision{RedirectTo: models.ViewLogin}
		}
		return Decision{Allow: true}
	default:
		return Decision{Allow: true}
	}
}
