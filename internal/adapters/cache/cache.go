package cache

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Cache stores backend read results between requests.
// Entries are addressed through Key so that bumping a resource generation
// makes every older entry of that resource unreachable.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Generation(ctx context.Context, resource string) (int64, error)
	Bump(ctx context.Context, resource string) error
}

// Key builds the entry key for one read.
// PRE: resource is non-empty
// POST: distinct (resource, generation, viewer, params) tuples give distinct keys
func Key(resource string, generation int64, viewer string, params ...string) string {
	var b strings.Builder
	b.WriteString("fitflow:")
	b.WriteString(resource)
	b.WriteString(":g")
	b.WriteString(strconv.FormatInt(generation, 10))
	b.WriteString(":v")
	b.WriteString(viewer)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(strconv.Quote(p))
	}
	return b.String()
}

func generationKey(resource string) string {
	return "fitflow:gen:" + resource
}
