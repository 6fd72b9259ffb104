package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resident-request-service/internal/domain/entity"
)

func testCatalogTypes() []entity.ServiceType {
	return []entity.ServiceType{
		{ID: 1, Name: "Trash Pickup"},
		{ID: 2, Name: "Pest Control"},
		{ID: 3, Name: "Inspection", IsInternal: true},
	}
}

func TestCatalogCachesWithinTTL(t *testing.T) {
	fs := &fakeFieldServiceRepo{catalog: testCatalogTypes()}
	c := NewCatalogService(fs, time.Hour, nopLog)

	for i := 0; i < 3; i++ {
		types, err := c.All(context.Background())
		require.NoError(t, err)
		assert.Len(t, types, 3)
	}
	assert.Equal(t, 1, fs.fetches(), "repeat reads inside the TTL hit the cache")
}

func TestCatalogRefreshesAfterTTL(t *testing.T) {
	fs := &fakeFieldServiceRepo{catalog: testCatalogTypes()}
	c := NewCatalogService(fs, 10*time.Millisecond, nopLog)

	_, err := c.All(context.Background())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = c.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fs.fetches())
}

func TestCatalogServesStaleOnRefreshFailure(t *testing.T) {
	fs := &fakeFieldServiceRepo{catalog: testCatalogTypes()}
	c := NewCatalogService(fs, 10*time.Millisecond, nopLog)

	_, err := c.All(context.Background())
	require.NoError(t, err)

	fs.mu.Lock()
	fs.catalogErr = errors.New("vendor down")
	fs.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	types, err := c.All(context.Background())
	require.NoError(t, err, "a stale catalog beats a failed operation")
	assert.Len(t, types, 3)
}

func TestCatalogFailsWhenNeverFetched(t *testing.T) {
	fs := &fakeFieldServiceRepo{catalogErr: errors.New("vendor down")}
	c := NewCatalogService(fs, time.Hour, nopLog)

	_, err := c.All(context.Background())
	assert.Error(t, err)
}

func TestPublicFiltersInternalTypes(t *testing.T) {
	fs := &fakeFieldServiceRepo{catalog: testCatalogTypes()}
	c := NewCatalogService(fs, time.Hour, nopLog)

	public, err := c.Public(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 2)
	for _, tt := range public {
		assert.False(t, tt.IsInternal)
	}
}

func TestPairsForTolerantMapping(t *testing.T) {
	fs := &fakeFieldServiceRepo{catalog: testCatalogTypes()}
	c := NewCatalogService(fs, time.Hour, nopLog)

	pairs := c.PairsFor(context.Background(), []int{2, 99, 1})
	assert.Equal(t, []entity.ServiceTypePair{
		{ID: 2, Name: "Pest Control"},
		{ID: 99, Name: ""},
		{ID: 1, Name: "Trash Pickup"},
	}, pairs, "an unknown id keeps an empty name instead of failing")
}

func TestPairsForDegradesWithoutCatalog(t *testing.T) {
	fs := &fakeFieldServiceRepo{catalogErr: errors.New("vendor down")}
	c := NewCatalogService(fs, time.Hour, nopLog)

	pairs := c.PairsFor(context.Background(), []int{1, 2})
	assert.Equal(t, []entity.ServiceTypePair{{ID: 1}, {ID: 2}}, pairs)
}
