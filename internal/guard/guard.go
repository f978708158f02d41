// Package guard decides whether a protected view may render for the
// current session. Views ask once per session change and obey the
// decision instead of checking roles themselves.
package guard

import (
	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/pkg/domain"
)

// Decision is the outcome of evaluating a protected view.
type Decision int

const (
	// Pending means the session is still resolving. Show a neutral
	// placeholder; never redirect yet.
	Pending Decision = iota
	// Redirecting means the caller must navigate to Result.Target.
	Redirecting
	// Rendering means the view may show its content.
	Rendering
)

// Target is where a redirect should land.
type Target int

const (
	TargetNone Target = iota
	// TargetLogin is for visitors with no session.
	TargetLogin
	// TargetDashboard is for authenticated users lacking the required
	// role. Sending them to login would discard a valid session.
	TargetDashboard
)

// Result pairs a decision with its redirect target, if any.
type Result struct {
	Decision Decision
	Target   Target
}

// Evaluate applies the access rules for a view. With no roles listed,
// any authenticated user may render. With roles listed, the user must
// hold one of them.
func Evaluate(s session.Session, roles ...domain.Role) Result {
	switch s.Status {
	case session.StatusUnresolved, session.StatusResolving:
		return Result{Decision: Pending}
	case session.StatusAnonymous:
		return Result{Decision: Redirecting, Target: TargetLogin}
	}

	if len(roles) == 0 {
		return Result{Decision: Rendering}
	}
	for _, role := range roles {
		if s.HasRole(role) {
			return Result{Decision: Rendering}
		}
	}
	return Result{Decision: Redirecting, Target: TargetDashboard}
}
