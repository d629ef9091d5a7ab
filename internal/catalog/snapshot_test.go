package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dacsanviet/discovery-engine/internal/cache"
)

type fakeSource struct {
	names []string
	err   error
	calls int
}

func (s *fakeSource) ListNames(ctx context.Context) ([]string, error) {
	s.calls++
	return s.names, s.err
}

func TestSnapshotRefresh(t *testing.T) {
	source := &fakeSource{names: []string{"Bánh mì", "Kẹo dừa"}}
	snap := NewSnapshot(source, nil, nil)

	require.NoError(t, snap.Refresh(context.Background()))
	assert.Equal(t, []string{"Bánh mì", "Kẹo dừa"}, snap.Names())
	assert.Equal(t, 2, snap.Len())
}

func TestSnapshotRefreshError(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	snap := NewSnapshot(source, nil, nil)

	assert.Error(t, snap.Refresh(context.Background()))
	assert.Empty(t, snap.Names())
}

func TestSnapshotNamesReturnsCopy(t *testing.T) {
	source := &fakeSource{names: []string{"Bánh mì"}}
	snap := NewSnapshot(source, nil, nil)
	require.NoError(t, snap.Refresh(context.Background()))

	names := snap.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"Bánh mì"}, snap.Names())
}

func TestSnapshotLoadPrefersCache(t *testing.T) {
	cacheClient := cache.NewMemoryClient(10)
	require.NoError(t, cacheClient.Set(context.Background(), cache.CatalogCacheKey(),
		[]byte(`["Phở bò"]`), time.Minute))

	source := &fakeSource{names: []string{"Bánh mì"}}
	snap := NewSnapshot(source, cacheClient, nil)

	require.NoError(t, snap.Load(context.Background()))
	assert.Equal(t, []string{"Phở bò"}, snap.Names())
	assert.Zero(t, source.calls, "cache hit must not touch the database")
}

func TestSnapshotLoadFallsBackToSource(t *testing.T) {
	source := &fakeSource{names: []string{"Bánh mì"}}
	snap := NewSnapshot(source, cache.NewMemoryClient(10), nil)

	require.NoError(t, snap.Load(context.Background()))
	assert.Equal(t, []string{"Bánh mì"}, snap.Names())
	assert.Equal(t, 1, source.calls)
}

func TestSnapshotRefreshRewritesCache(t *testing.T) {
	cacheClient := cache.NewMemoryClient(10)
	source := &fakeSource{names: []string{"Cơm tấm"}}
	snap := NewSnapshot(source, cacheClient, nil)

	require.NoError(t, snap.Refresh(context.Background()))

	data, err := cacheClient.Get(context.Background(), cache.CatalogCacheKey())
	require.NoError(t, err)
	assert.JSONEq(t, `["Cơm tấm"]`, string(data))
}
