package curation

import (
	"context"
	"maps"
	"slices"
	"sync"

	"postcurator/internal/models"
)

func ptr(v int64) *int64 { return &v }

// memStore is an in-memory category store and post catalog.
type memStore struct {
	mu         sync.Mutex
	categories []models.Category
	posts      map[int64]models.Post

	listCalls  int
	countCalls int
	err        error
}

func newMemStore() *memStore {
	return &memStore{posts: make(map[int64]models.Post)}
}

func (m *memStore) addPost(id int64, categoryID *int64) {
	m.posts[id] = models.Post{
		ID:         id,
		PostID:     "ext-" + string(rune('a'+id)),
		Content:    "content",
		Username:   "user",
		PostURL:    "https://example.com/post",
		CategoryID: categoryID,
	}
}

// categoryReader and postCatalog adapt memStore to the two store interfaces.
type categoryReader struct{ *memStore }
type postCatalog struct{ *memStore }

func (c categoryReader) List(ctx context.Context) ([]models.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if c.err != nil {
		return nil, c.err
	}
	return slices.Clone(c.categories), nil
}

func (c categoryReader) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	for _, cat := range c.categories {
		if cat.ID == id {
			return &cat, nil
		}
	}
	return nil, nil
}

func (p postCatalog) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	post, ok := p.posts[id]
	if !ok {
		return nil, nil
	}
	return &post, nil
}

func (p postCatalog) ListUncategorized(ctx context.Context) ([]models.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	var out []models.Post
	for _, id := range slices.Sorted(maps.Keys(p.posts)) {
		if p.posts[id].CategoryID == nil {
			out = append(out, p.posts[id])
		}
	}
	return out, nil
}

func (p postCatalog) SetCategory(ctx context.Context, postID int64, categoryID *int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	post, ok := p.posts[postID]
	if !ok {
		return false, nil
	}
	post.CategoryID = categoryID
	p.posts[postID] = post
	return true, nil
}

func (p postCatalog) CountByCategory(ctx context.Context) (map[int64]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.countCalls++
	counts := make(map[int64]int)
	for _, post := range p.posts {
		if post.CategoryID != nil {
			counts[*post.CategoryID]++
		}
	}
	return counts, nil
}

// memTx serializes units of work and restores the posts on failure.
type memTx struct {
	mu    sync.Mutex
	store *memStore
}

func (t *memTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.store.mu.Lock()
	snapshot := maps.Clone(t.store.posts)
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.posts = snapshot
		t.store.mu.Unlock()
		return err
	}
	return nil
}

// memCache is an in-memory ViewCache. Entries are never evicted.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(ctx context.Context, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

func (c *memCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.data))
}

// recorder counts metric observations.
type recorder struct {
	mu          sync.Mutex
	assignments map[string]int
	hits        int
	misses      int
}

func (r *recorder) ObserveAssignment(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assignments == nil {
		r.assignments = make(map[string]int)
	}
	r.assignments[result]++
}

func (r *recorder) ObserveViewCache(view string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

// fixture is economy → investing → bitcoin with five posts, 1..5.
func fixture() *memStore {
	m := newMemStore()
	m.categories = []models.Category{
		{ID: 1, Name: "economy"},
		{ID: 2, Name: "investing", ParentID: ptr(1)},
		{ID: 3, Name: "bitcoin", ParentID: ptr(2)},
	}
	for id := int64(1); id <= 5; id++ {
		m.addPost(id, nil)
	}
	return m
}

func newService(m *memStore, views ViewCache, rec Recorder) *Service {
	return New(categoryReader{m}, postCatalog{m}, &memTx{store: m}, views, rec)
}
