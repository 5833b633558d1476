package prune

import (
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/viant/reactprune/hir"
)

// Logger receives phase-boundary trace events from Run. Tests and
// callers that don't care about tracing pass NopLogger{}.
type Logger interface {
	ScopeKept(id hir.ScopeId)
	ScopePruned(id hir.ScopeId)
	ScopeForced(id hir.ScopeId, dep hir.IdentifierId)
}

// NopLogger discards every event.
type NopLogger struct{}

func (NopLogger) ScopeKept(hir.ScopeId)                     {}
func (NopLogger) ScopePruned(hir.ScopeId)                   {}
func (NopLogger) ScopeForced(hir.ScopeId, hir.IdentifierId) {}

// CharmLogger adapts charmbracelet/log to Logger, for the CLI driver.
type CharmLogger struct {
	log *charmlog.Logger
}

// NewCharmLogger builds a CharmLogger writing to stderr at the level
// currently set on charmbracelet/log's default logger (info unless a
// caller has changed it).
func NewCharmLogger() *CharmLogger {
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: "reactprune",
		Level:  charmlog.GetLevel(),
	})
	return &CharmLogger{log: l}
}

func (c *CharmLogger) ScopeKept(id hir.ScopeId) {
	c.log.Debug("scope kept", "scope", id.String())
}

func (c *CharmLogger) ScopePruned(id hir.ScopeId) {
	c.log.Debug("scope pruned", "scope", id.String())
}

func (c *CharmLogger) ScopeForced(id hir.ScopeId, dep hir.IdentifierId) {
	c.log.Info("scope dependency forced memoized", "scope", id.String(), "identifier", dep.String())
}
