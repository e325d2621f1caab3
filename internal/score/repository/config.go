package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"ioiscore/internal/common/cache"
	"ioiscore/internal/common/db"
	"ioiscore/internal/score/model"
)

const (
	defaultConfigTTL      = 30 * time.Minute
	defaultConfigEmptyTTL = 5 * time.Minute
	configKeyPrefix       = "ioi:config:"
)

var ErrConfigNotFound = errors.New("problem config not found")

// ConfigRepository stores each problem's scoring configuration as one
// atomic document, so a scoring pass never sees a half-updated subtask list.
type ConfigRepository interface {
	Get(ctx context.Context, problemID int64) (model.ProblemConfig, error)
	Put(ctx context.Context, cfg model.ProblemConfig) error
}

type MySQLConfigRepository struct {
	db       db.Database
	cache    cache.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

func NewConfigRepository(database db.Database, cacheClient cache.Cache) ConfigRepository {
	return NewConfigRepositoryWithTTL(database, cacheClient, defaultConfigTTL, defaultConfigEmptyTTL)
}

func NewConfigRepositoryWithTTL(database db.Database, cacheClient cache.Cache, ttl, emptyTTL time.Duration) ConfigRepository {
	if ttl <= 0 {
		ttl = defaultConfigTTL
	}
	if emptyTTL <= 0 {
		emptyTTL = defaultConfigEmptyTTL
	}
	return &MySQLConfigRepository{
		db:       database,
		cache:    cacheClient,
		ttl:      ttl,
		emptyTTL: emptyTTL,
	}
}

func (r *MySQLConfigRepository) Get(ctx context.Context, problemID int64) (model.ProblemConfig, error) {
	if r.cache != nil {
		cfg, err := cache.GetWithCached[model.ProblemConfig](
			ctx,
			r.cache,
			configKey(problemID),
			cache.JitterTTL(r.ttl),
			cache.JitterTTL(r.emptyTTL),
			func(cfg model.ProblemConfig) bool { return cfg.ProblemID == 0 },
			marshalConfig,
			unmarshalConfig,
			func(ctx context.Context) (model.ProblemConfig, error) {
				cfg, err := r.getFromDB(ctx, problemID)
				if err != nil {
					if errors.Is(err, ErrConfigNotFound) {
						return model.ProblemConfig{}, nil
					}
					return model.ProblemConfig{}, err
				}
				return cfg, nil
			},
		)
		if err != nil {
			return model.ProblemConfig{}, err
		}
		if cfg.ProblemID == 0 {
			return model.ProblemConfig{}, ErrConfigNotFound
		}
		return cfg, nil
	}
	return r.getFromDB(ctx, problemID)
}

func (r *MySQLConfigRepository) Put(ctx context.Context, cfg model.ProblemConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return cache.DeleteCached(ctx, r.cache, configKey(cfg.ProblemID), func(ctx context.Context) error {
		query := `
			INSERT INTO ioi_problem_config (problem_id, config, updated_at)
			VALUES (?, ?, NOW())
			ON DUPLICATE KEY UPDATE config = VALUES(config), updated_at = NOW()`
		_, err := r.db.Exec(ctx, query, cfg.ProblemID, string(payload))
		return err
	})
}

func (r *MySQLConfigRepository) getFromDB(ctx context.Context, problemID int64) (model.ProblemConfig, error) {
	query := "SELECT config FROM ioi_problem_config WHERE problem_id = ?"
	row := r.db.QueryRow(ctx, query, problemID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if db.IsNoRows(err) {
			return model.ProblemConfig{}, ErrConfigNotFound
		}
		return model.ProblemConfig{}, err
	}
	cfg, err := unmarshalConfig(raw)
	if err != nil {
		return model.ProblemConfig{}, err
	}
	cfg.ProblemID = problemID
	return cfg, nil
}

func configKey(problemID int64) string {
	return configKeyPrefix + strconv.FormatInt(problemID, 10)
}

func marshalConfig(cfg model.ProblemConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalConfig(raw string) (model.ProblemConfig, error) {
	var cfg model.ProblemConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return model.ProblemConfig{}, err
	}
	return cfg, nil
}
