// Package guard gates default-handler changes behind an approval policy:
// it decides, per security level and user confirmation, whether a
// requested rebinding may proceed before the engine commits it.
package guard

import (
	"fmt"
	"log/slog"

	"github.com/typebind-dev/typebind/handler/entities"
)

// SecurityLevel controls the guard's approval behavior.
type SecurityLevel string

const (
	SecurityStrict     SecurityLevel = "strict"
	SecurityStandard   SecurityLevel = "standard"
	SecurityPermissive SecurityLevel = "permissive"
)

// Change describes one requested binding change for approval.
type Change struct {
	Kind    string // "type" or "scheme"
	Target  string // the identifier or scheme being rebound
	AppPath string
	AppName string
}

// Description renders the change for prompts and logs.
func (c Change) Description() string {
	app := c.AppName
	if app == "" {
		app = c.AppPath
	}
	return fmt.Sprintf("make %s the default handler for %s %s", app, c.Kind, c.Target)
}

// browserSchemes are the targets a strict deployment refuses to rebind
// without an explicit override: hijacking the browser is the classic
// handler-registration abuse.
var browserSchemes = map[string]bool{"http": true, "https": true}

// Prompter asks the user to approve a change.
type Prompter interface {
	IsInteractive() bool
	Confirm(change Change) (bool, error)
}

// Guard decides whether binding changes may proceed.
type Guard struct {
	prompter     Prompter
	level        SecurityLevel
	allowBrowser bool
	logger       *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithPrompter sets the prompter.
func WithPrompter(p Prompter) Option {
	return func(g *Guard) { g.prompter = p }
}

// WithSecurityLevel sets the security policy level.
func WithSecurityLevel(level SecurityLevel) Option {
	return func(g *Guard) { g.level = level }
}

// WithBrowserOverride permits rebinding http/https under strict policy.
func WithBrowserOverride() Option {
	return func(g *Guard) { g.allowBrowser = true }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// New creates a Guard. The default level is standard with a terminal
// prompter.
func New(opts ...Option) *Guard {
	g := &Guard{
		level:  SecurityStandard,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.prompter == nil {
		g.prompter = NewTerminalPrompter()
	}
	return g
}

// Approve decides whether the change may proceed. A refusal — by policy or
// by the user — maps to entities.ErrDeclined so callers report it exactly
// like a registry-level decline.
func (g *Guard) Approve(change Change) error {
	if g.level == SecurityStrict && change.Kind == "scheme" && browserSchemes[change.Target] && !g.allowBrowser {
		g.logger.Warn("browser rebinding refused by security policy",
			"level", string(g.level),
			"change", change.Description())
		return &entities.DeclinedError{Target: change.Target, AppPath: change.AppPath}
	}

	if g.level == SecurityPermissive {
		return nil
	}

	if !g.prompter.IsInteractive() {
		return &entities.DeclinedError{Target: change.Target, AppPath: change.AppPath}
	}

	approved, err := g.prompter.Confirm(change)
	if err != nil {
		return &entities.SystemError{Op: "confirm binding change", Err: err}
	}
	if !approved {
		return &entities.DeclinedError{Target: change.Target, AppPath: change.AppPath}
	}
	return nil
}
