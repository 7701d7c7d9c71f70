package services

import (
	"golang.org/x/exp/slices"
)

type GuardAction int

const (
	Allow GuardAction = iota
	Redirect
	// Defer means the session is still being restored and the decision has to be made again later.
	Defer
)

func (a GuardAction) String() string {
	switch a {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Defer:
		return "defer"
	default:
		return "unknown"
	}
}

type GuardDecision struct {
	Action GuardAction
	Target string
}

type RouteGuard struct {
	LoginPath     string
	DashboardPath string
	publicPaths   []string
}

// NewRouteGuard creates a guard that lets anonymous clients reach loginPath and publicPaths only.
func NewRouteGuard(loginPath, dashboardPath string, publicPaths ...string) *RouteGuard {
	paths := slices.Clone(publicPaths)
	if !slices.Contains(paths, loginPath) {
		paths = append(paths, loginPath)
	}
	return &RouteGuard{
		LoginPath:     loginPath,
		DashboardPath: dashboardPath,
		publicPaths:   paths,
	}
}

func (g *RouteGuard) IsPublic(path string) bool {
	return slices.Contains(g.publicPaths, path)
}

func (g *RouteGuard) PublicPaths() []string {
	return slices.Clone(g.publicPaths)
}

// Evaluate decides what happens to a navigation to path given the resolved session of the client.
func (g *RouteGuard) Evaluate(sess Session, path string) GuardDecision {
	if sess.State == Restoring {
		return GuardDecision{Action: Defer}
	}
	if sess.Token == "" && !g.IsPublic(path) {
		return GuardDecision{Action: Redirect, Target: g.LoginPath}
	}
	if sess.Token != "" && path == g.LoginPath {
		return GuardDecision{Action: Redirect, Target: g.DashboardPath}
	}
	return GuardDecision{Action: Allow}
}
