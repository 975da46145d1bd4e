package auth

// Route-access policy. A static set of paths is public; everything else needs
// a present session. Evaluation happens only after the session status has
// resolved, so a redirect is never issued on incomplete information.

const (
	// SignInPath is where unauthenticated users are sent.
	SignInPath = "/login"
	// LandingPath is the default destination after sign-in.
	LandingPath = "/treasury"
)

var publicPaths = map[string]struct{}{
	"/":        {},
	SignInPath: {},
	"/404":     {},
}

// IsPublic reports whether path is reachable without a session.
func IsPublic(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

// Navigation is the side effect a transition may request. Zero value means
// "stay where you are".
type Navigation struct {
	To       string
	Redirect bool
}

// DecideNavigation is the pure route policy. Rules, in order: a present
// session sitting on the sign-in path goes to the landing path; an absent
// session on a protected path goes to the sign-in path; otherwise no
// navigation. It runs on every lifecycle event, including token refreshes,
// which carry a present session and must not spuriously redirect.
func DecideNavigation(present bool, currentPath string) Navigation {
	switch {
	case present && currentPath == SignInPath:
		return Navigation{To: LandingPath, Redirect: true}
	case !present && !IsPublic(currentPath):
		return Navigation{To: SignInPath, Redirect: true}
	default:
		return Navigation{}
	}
}
