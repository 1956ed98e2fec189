package registry_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	testify "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/registry"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

func testRedisRepo(t *testing.T) *registry.RedisRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return registry.NewRedisRepositoryWithClient(client, "codex")
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	as := testify.New(t)
	ctx := context.Background()
	repo := testRedisRepo(t)

	flow := orderFlow(1)
	require.NoError(t, repo.Put(ctx, flow))

	stored, err := repo.Get(ctx, "order-flow")
	as.NoError(err)
	as.Equal(flow.ID, stored.ID)
	as.Equal(flow.Version, stored.Version)
	as.Len(stored.Nodes, 2)
	as.Len(stored.Edges, 1)
}

func TestRedisRepositoryGetMissing(t *testing.T) {
	repo := testRedisRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	testify.ErrorIs(t, err, api.ErrFlowNotFound)
}

func TestRedisRepositoryList(t *testing.T) {
	as := testify.New(t)
	ctx := context.Background()
	repo := testRedisRepo(t)

	flows, err := repo.List(ctx)
	as.NoError(err)
	as.Empty(flows)

	first := orderFlow(1)
	second := orderFlow(1)
	second.ID = "other-flow"
	require.NoError(t, repo.Put(ctx, first))
	require.NoError(t, repo.Put(ctx, second))

	flows, err = repo.List(ctx)
	as.NoError(err)
	as.Len(flows, 2)
}

func TestRedisRepositoryOverwrite(t *testing.T) {
	as := testify.New(t)
	ctx := context.Background()
	repo := testRedisRepo(t)

	flow := orderFlow(1)
	require.NoError(t, repo.Put(ctx, flow))

	flow.Status = api.FlowSealed
	require.NoError(t, repo.Put(ctx, flow))

	stored, err := repo.Get(ctx, "order-flow")
	as.NoError(err)
	as.True(stored.IsSealed())

	// The index holds one entry per flow id, not per write
	flows, err := repo.List(ctx)
	as.NoError(err)
	as.Len(flows, 1)
}

func TestRegistryOverRedis(t *testing.T) {
	as := testify.New(t)
	ctx := context.Background()
	reg := registry.New(testRedisRepo(t))

	_, err := reg.Save(ctx, orderFlow(1))
	as.NoError(err)

	sealedID, err := reg.Publish(ctx, "order-flow")
	as.NoError(err)
	as.Equal("order-flow-v1", sealedID)

	_, err = reg.Save(ctx, orderFlow(1))
	as.ErrorIs(err, api.ErrFlowVersionSealed)

	flow, err := reg.FindByEventType(ctx, "order.created")
	as.NoError(err)
	as.True(flow.IsSealed())
}
