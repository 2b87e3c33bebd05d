// Package token maps candidate user ids to deliverable device tokens.
package token

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/preference"
	"github.com/pocketlist/push-fanout/internal/store"
)

// Resolver turns a candidate user-id set into the set of device tokens to
// deliver to. User documents are fetched in chunks of at most chunkSize ids
// per multi-get, so resolving n users costs ceil(n/chunkSize) round-trips
// instead of n. Chunks are queried concurrently; a failing chunk only loses
// its own users.
type Resolver struct {
	store     store.Store
	prefs     *preference.Resolver
	chunkSize int
	logger    *zap.Logger
}

func NewResolver(st store.Store, prefs *preference.Resolver, chunkSize int, logger *zap.Logger) *Resolver {
	if chunkSize <= 0 || chunkSize > store.MaxIDsPerQuery {
		chunkSize = store.MaxIDsPerQuery
	}
	return &Resolver{store: st, prefs: prefs, chunkSize: chunkSize, logger: logger}
}

// Resolve returns the tokens of every candidate that has a registered device
// and allows the given kind. Users without a token, users opted out of the
// kind, and users whose chunk lookup failed are skipped silently; delivery
// is best effort and the result order carries no meaning.
func (r *Resolver) Resolve(ctx context.Context, userIDs []string, kind domain.Kind) []string {
	if len(userIDs) == 0 {
		return nil
	}

	chunks := chunk(userIDs, r.chunkSize)
	results := make([][]*domain.User, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	for i, ids := range chunks {
		g.Go(func() error {
			users, err := r.store.GetUsers(ctx, ids)
			if err != nil {
				// Isolated to this chunk: the other chunks' users still
				// get their notification.
				r.logger.Warn("user chunk lookup failed",
					zap.Strings("user_ids", ids),
					zap.Error(err),
				)
				return nil
			}
			results[i] = users
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error

	seen := make(map[string]struct{})
	var tokens []string
	for _, users := range results {
		for _, u := range users {
			if u.FCMToken == "" {
				continue
			}
			if !r.prefs.Allowed(u, kind) {
				continue
			}
			if _, dup := seen[u.FCMToken]; dup {
				continue
			}
			seen[u.FCMToken] = struct{}{}
			tokens = append(tokens, u.FCMToken)
		}
	}
	return tokens
}

func chunk(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
