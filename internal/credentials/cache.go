package credentials

import (
	"context"
	"time"

	"github.com/OpsMx/rtc-auth-client/pkg/jwt"
	gocache "github.com/patrickmn/go-cache"
)

// CachingResolver caches secrets returned by another resolver for a fixed TTL
// Unknown keys and lookup errors are not cached. Derived signing keys never pass through here.
type CachingResolver struct {
	next jwt.SecretResolver
	c    *gocache.Cache
}

// NewCachingResolver wraps next with a TTL cache
// A ttl <= 0 disables caching and every lookup goes to next.
func NewCachingResolver(next jwt.SecretResolver, ttl time.Duration) *CachingResolver {
	r := &CachingResolver{next: next}
	if ttl > 0 {
		r.c = gocache.New(ttl, time.Minute)
	}
	return r
}

// ResolveSecret implements jwt.SecretResolver
func (r *CachingResolver) ResolveSecret(ctx context.Context, applicationKey string) (string, error) {
	if r.c == nil {
		return r.next.ResolveSecret(ctx, applicationKey)
	}
	if v, ok := r.c.Get(applicationKey); ok {
		if s, ok := v.(string); ok {
			return s, nil
		}
	}

	secret, err := r.next.ResolveSecret(ctx, applicationKey)
	if err != nil {
		return "", err
	}
	r.c.SetDefault(applicationKey, secret)
	return secret, nil
}

// Invalidate drops a cached secret
func (r *CachingResolver) Invalidate(applicationKey string) {
	if r.c != nil {
		r.c.Delete(applicationKey)
	}
}

var _ jwt.SecretResolver = (*CachingResolver)(nil)
