package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postcurator/internal/models"
)

func ptr(v int64) *int64 { return &v }

// sampleCategories is economy → investing → bitcoin plus a second root with
// two children.
func sampleCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "economy"},
		{ID: 2, Name: "investing", ParentID: ptr(1)},
		{ID: 3, Name: "bitcoin", ParentID: ptr(2)},
		{ID: 4, Name: "politics"},
		{ID: 5, Name: "elections", ParentID: ptr(4)},
		{ID: 6, Name: "policy", ParentID: ptr(4)},
	}
}

func TestFullPath(t *testing.T) {
	ix := New(sampleCategories())

	tests := []struct {
		id   int64
		want string
	}{
		{1, "economy"},
		{2, "economy → investing"},
		{3, "economy → investing → bitcoin"},
		{6, "politics → policy"},
	}
	for _, tt := range tests {
		got, err := ix.FullPath(tt.id)
		require.NoError(t, err, "FullPath(%d)", tt.id)
		assert.Equal(t, tt.want, got, "FullPath(%d)", tt.id)
	}
}

func TestFullPathIsStable(t *testing.T) {
	ix := New(sampleCategories())
	first, err := ix.FullPath(3)
	require.NoError(t, err)
	second, err := ix.FullPath(3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFullPathUnknownID(t *testing.T) {
	ix := New(sampleCategories())
	_, err := ix.FullPath(99)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestFullPathDanglingParent(t *testing.T) {
	ix := New([]models.Category{{ID: 1, Name: "orphan", ParentID: ptr(42)}})
	_, err := ix.FullPath(1)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestFullPathCycle(t *testing.T) {
	tests := []struct {
		name string
		cats []models.Category
		id   int64
	}{
		{
			name: "self parent",
			cats: []models.Category{{ID: 1, Name: "loop", ParentID: ptr(1)}},
			id:   1,
		},
		{
			name: "three node ring",
			cats: []models.Category{
				{ID: 1, Name: "a", ParentID: ptr(3)},
				{ID: 2, Name: "b", ParentID: ptr(1)},
				{ID: 3, Name: "c", ParentID: ptr(2)},
			},
			id: 2,
		},
		{
			name: "tail into ring",
			cats: []models.Category{
				{ID: 1, Name: "a", ParentID: ptr(2)},
				{ID: 2, Name: "b", ParentID: ptr(1)},
				{ID: 3, Name: "leaf", ParentID: ptr(1)},
			},
			id: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cats).FullPath(tt.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCycleDetected), "got %v", err)
		})
	}
}

func TestPathsKeepsListingOrder(t *testing.T) {
	paths, err := New(sampleCategories()).Paths()
	require.NoError(t, err)
	require.Len(t, paths, 6)

	assert.Equal(t, models.CategoryPath{ID: 1, Name: "economy", FullPath: "economy"}, paths[0])
	assert.Equal(t, models.CategoryPath{ID: 3, Name: "bitcoin", FullPath: "economy → investing → bitcoin"}, paths[2])
	assert.Equal(t, models.CategoryPath{ID: 5, Name: "elections", FullPath: "politics → elections"}, paths[4])
}

func TestPathsFailsOnCycle(t *testing.T) {
	cats := append(sampleCategories(), models.Category{ID: 7, Name: "loop", ParentID: ptr(7)})
	_, err := New(cats).Paths()
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestForestWithoutCounts(t *testing.T) {
	forest := New(sampleCategories()).Forest(false, nil)
	require.Len(t, forest, 2)

	economy := forest[0]
	assert.Equal(t, int64(1), economy.ID)
	assert.Nil(t, economy.PostCount)
	require.Len(t, economy.Children, 1)
	require.Len(t, economy.Children[0].Children, 1)
	assert.Equal(t, "bitcoin", economy.Children[0].Children[0].Name)
	assert.NotNil(t, economy.Children[0].Children[0].Children, "leaf children must be empty, not nil")
	assert.Empty(t, economy.Children[0].Children[0].Children)

	politics := forest[1]
	require.Len(t, politics.Children, 2)
	assert.Equal(t, int64(5), politics.Children[0].ID)
	assert.Equal(t, int64(6), politics.Children[1].ID)
}

func TestForestWithCounts(t *testing.T) {
	cats := sampleCategories()[:3]
	forest := New(cats).Forest(true, map[int64]int{3: 2, 1: 1})
	require.Len(t, forest, 1)

	economy := forest[0]
	investing := economy.Children[0]
	bitcoin := investing.Children[0]

	require.NotNil(t, economy.PostCount)
	require.NotNil(t, investing.PostCount)
	require.NotNil(t, bitcoin.PostCount)
	assert.Equal(t, 1, *economy.PostCount)
	assert.Equal(t, 0, *investing.PostCount)
	assert.Equal(t, 2, *bitcoin.PostCount)
}

func TestForestSkipsCycles(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Name: "root"},
		{ID: 2, Name: "a", ParentID: ptr(3)},
		{ID: 3, Name: "b", ParentID: ptr(2)},
	}
	forest := New(cats).Forest(false, nil)
	require.Len(t, forest, 1)
	assert.Empty(t, forest[0].Children)
}

func TestForestEmpty(t *testing.T) {
	forest := New(nil).Forest(true, nil)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestIndexAccessors(t *testing.T) {
	ix := New(sampleCategories())
	assert.Equal(t, 6, ix.Len())
	assert.Equal(t, []int64{1, 4}, ix.Roots())
	assert.Equal(t, []int64{5, 6}, ix.Children(4))
	assert.Empty(t, ix.Children(3))

	c, ok := ix.Get(2)
	require.True(t, ok)
	assert.Equal(t, "investing", c.Name)

	_, ok = ix.Get(100)
	assert.False(t, ok)
}

func TestFlatten(t *testing.T) {
	flat := Flatten(New(sampleCategories()).Forest(false, nil))
	require.Len(t, flat, 6)

	wantIDs := []int64{1, 2, 3, 4, 5, 6}
	wantDepths := []int{0, 1, 2, 0, 1, 1}
	for i, n := range flat {
		assert.Equal(t, wantIDs[i], n.ID, "position %d", i)
		assert.Equal(t, wantDepths[i], n.Depth, "depth of %d", n.ID)
	}
}
