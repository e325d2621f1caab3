package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"ioiscore/internal/common/cache"
	"ioiscore/internal/score/engine"
)

const (
	defaultLeaderboardTTL = 30 * time.Second
	leaderboardKeyPrefix  = "ioi:leaderboard:"
)

// LeaderboardCache keeps rendered leaderboard pages in redis for a short
// TTL. Pages are zstd-compressed JSON: a big contest page repeats the same
// field names hundreds of times and compresses to a fraction of its size.
type LeaderboardCache struct {
	cache   cache.Cache
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewLeaderboardCache(cacheClient cache.Cache, ttl time.Duration) (*LeaderboardCache, error) {
	if ttl <= 0 {
		ttl = defaultLeaderboardTTL
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &LeaderboardCache{
		cache:   cacheClient,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Get returns the cached page, or ok=false on a miss or an unreadable
// entry. Cache failures never fail a leaderboard request.
func (c *LeaderboardCache) Get(ctx context.Context, contestID int64, page, pageSize int) (engine.LeaderboardPage, bool) {
	if c == nil || c.cache == nil {
		return engine.LeaderboardPage{}, false
	}
	raw, err := c.cache.Get(ctx, leaderboardKey(contestID, page, pageSize))
	if err != nil || raw == "" {
		return engine.LeaderboardPage{}, false
	}
	decompressed, err := c.decoder.DecodeAll([]byte(raw), nil)
	if err != nil {
		return engine.LeaderboardPage{}, false
	}
	var lp engine.LeaderboardPage
	if err := json.Unmarshal(decompressed, &lp); err != nil {
		return engine.LeaderboardPage{}, false
	}
	return lp, true
}

func (c *LeaderboardCache) Set(ctx context.Context, contestID int64, lp engine.LeaderboardPage) {
	if c == nil || c.cache == nil {
		return
	}
	payload, err := json.Marshal(lp)
	if err != nil {
		return
	}
	compressed := c.encoder.EncodeAll(payload, nil)
	_ = c.cache.Set(ctx, leaderboardKey(contestID, lp.Page, lp.PageSize), string(compressed), cache.JitterTTL(c.ttl))
}

func leaderboardKey(contestID int64, page, pageSize int) string {
	return fmt.Sprintf("%s%d:%d:%d", leaderboardKeyPrefix, contestID, page, pageSize)
}
