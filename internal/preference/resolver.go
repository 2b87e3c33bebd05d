// Package preference decides whether a user wants a given notification kind.
package preference

import (
	"go.uber.org/zap"

	"github.com/pocketlist/push-fanout/internal/domain"
)

// defaults is the single declarative table of per-kind preference defaults.
// Every known kind defaults to allowed; a user only stops receiving a kind
// by storing an explicit false.
var defaults = func() map[domain.Kind]bool {
	m := make(map[domain.Kind]bool, len(domain.Kinds))
	for _, k := range domain.Kinds {
		m[k] = true
	}
	return m
}()

// Resolver answers allow/deny per user and event kind.
//
// The policy is fail open: a missing user document, a missing preference
// entry, or an unreadable stored value all resolve to allowed. A missed
// notification is worse than an occasional extra one caused by a transient
// read problem.
type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Allowed reports whether the user should receive notifications of the given
// kind. user may be nil (document unreadable) — that allows.
func (r *Resolver) Allowed(user *domain.User, kind domain.Kind) bool {
	def, known := defaults[kind]
	if !known {
		// A kind this build does not know about yet; fail open.
		def = true
	}

	if user == nil || user.Prefs == nil {
		return def
	}

	v, ok := user.Prefs[string(kind)]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		// Stored value is not a bool — a corrupt or half-migrated document.
		r.logger.Warn("unreadable notification preference, allowing",
			zap.String("user_id", user.ID),
			zap.String("kind", string(kind)),
		)
		return true
	}
	return b
}
