package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultUpdateTTL covers Telegram's redelivery window for a failed webhook.
const DefaultUpdateTTL = 24 * time.Hour

// UpdateRepository is the single-instance fallback for webhook dedup when
// Redis is not reachable.
type UpdateRepository struct {
	cache *cache.Cache
}

// NewUpdateRepository remembers update ids for ttl. A non-positive ttl
// falls back to DefaultUpdateTTL; ids are never kept forever.
func NewUpdateRepository(ttl time.Duration) *UpdateRepository {
	if ttl <= 0 {
		ttl = DefaultUpdateTTL
	}
	return &UpdateRepository{cache: cache.New(ttl, ttl)}
}

func (r *UpdateRepository) MarkProcessed(_ context.Context, updateID int64) (bool, error) {
	err := r.cache.Add(strconv.FormatInt(updateID, 10), struct{}{}, cache.DefaultExpiration)
	return err == nil, nil
}
