package gate

import (
	"net/url"

	"github.com/nrsport/console-backend/internal/auth"
	"github.com/nrsport/console-backend/internal/models"
)

// Action is the outcome of evaluating an access attempt.
type Action string

const (
	ActionAllow               Action = "allow"
	ActionDeny                Action = "deny"
	ActionRedirectLogin       Action = "redirect_login"
	ActionRedirectEventSelect Action = "redirect_event_select"
)

// Decision is the gate's verdict for one attempt. Decisions are
// terminal: a denied or redirected attempt is never retried
// automatically, it takes a new user action.
type Decision struct {
	Action     Action
	RedirectTo string
}

func (d Decision) Allowed() bool { return d.Action == ActionAllow }

// Target describes what an attempt is trying to reach: the requested
// path (preserved across the login redirect), the capability the
// target demands, and whether the target is scoped to the selected
// event. IsEventSelect marks the event-selection surface itself, which
// must stay reachable without a selection.
type Target struct {
	Path          string
	Capability    auth.Capability
	EventScoped   bool
	IsEventSelect bool
}

// Gate decides ALLOW/DENY/REDIRECT for navigation and action attempts.
// It is pure over its inputs: session, resolved capabilities and event
// selection.
type Gate struct {
	loginPath       string
	eventSelectPath string
}

// New creates a Gate that redirects to the given console paths.
func New(loginPath, eventSelectPath string) *Gate {
	return &Gate{
		loginPath:       loginPath,
		eventSelectPath: eventSelectPath,
	}
}

// Evaluate runs the checks in fixed order and stops at the first
// non-ALLOW: session, capability, event selection.
func (g *Gate) Evaluate(sess *models.Session, target Target) Decision {
	// 1. No valid session: back to login, preserving the requested
	// path as the return target.
	if sess == nil {
		return Decision{
			Action:     ActionRedirectLogin,
			RedirectTo: g.loginPath + "?next=" + url.QueryEscape(target.Path),
		}
	}

	// 2. Capability check. Unknown roles resolve to the empty set, so
	// they fail closed here.
	if target.Capability != "" && !auth.HasCapability(sess.Role, sess.IsJudge, target.Capability) {
		return Decision{Action: ActionDeny}
	}

	// 3. Event-scoped targets need a selection first, except the
	// selection surface itself.
	if target.EventScoped && !target.IsEventSelect && !sess.HasEventSelected() {
		return Decision{
			Action:     ActionRedirectEventSelect,
			RedirectTo: g.eventSelectPath,
		}
	}

	return Decision{Action: ActionAllow}
}
