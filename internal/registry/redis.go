package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// RedisRepository stores flow definitions as JSON values in Redis, with a
// set index for listing. Safe for concurrent readers; the registry above
// it serializes writers
type RedisRepository struct {
	client *redis.Client
	prefix string
}

var _ FlowRepository = (*RedisRepository)(nil)

// NewRedisRepository creates a repository backed by the configured Redis
func NewRedisRepository(cfg config.RedisConfig) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisRepository{
		client: client,
		prefix: cfg.Prefix,
	}
}

// NewRedisRepositoryWithClient wraps an existing client; used by tests
func NewRedisRepositoryWithClient(
	client *redis.Client, prefix string,
) *RedisRepository {
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) Get(
	ctx context.Context, id api.FlowID,
) (*api.Flow, error) {
	data, err := r.client.Get(ctx, r.flowKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", api.ErrFlowNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var flow api.Flow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

func (r *RedisRepository) Put(ctx context.Context, flow *api.Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.flowKey(flow.ID), data, 0)
	pipe.SAdd(ctx, r.indexKey(), string(flow.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisRepository) List(ctx context.Context) ([]*api.Flow, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, err
	}

	res := make([]*api.Flow, 0, len(ids))
	for _, id := range ids {
		flow, err := r.Get(ctx, api.FlowID(id))
		if errors.Is(err, api.ErrFlowNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res = append(res, flow)
	}
	return res, nil
}

// Close releases the underlying Redis client
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) flowKey(id api.FlowID) string {
	return fmt.Sprintf("%s:flow:%s", r.prefix, id)
}

func (r *RedisRepository) indexKey() string {
	return r.prefix + ":flows"
}
