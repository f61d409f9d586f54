package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"confession-backend/internal/domains/profile"
)

// memRepo là profile.Repository in-memory có unique trên id và slug
type memRepo struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*profile.Profile
	bySlug map[string]*profile.Profile

	probes  []string
	creates int
	findErr error

	// beforeCreate chạy trước khi insert, dùng để mô phỏng concurrent writer
	beforeCreate func(p *profile.Profile)
}

func newMemRepo() *memRepo {
	return &memRepo{
		byID:   map[uuid.UUID]*profile.Profile{},
		bySlug: map[string]*profile.Profile{},
	}
}

func (r *memRepo) insert(p *profile.Profile) {
	cp := *p
	r.byID[p.ID] = &cp
	r.bySlug[p.Slug] = &cp
}

func (r *memRepo) Create(_ context.Context, p *profile.Profile) error {
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook(p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if _, ok := r.byID[p.ID]; ok {
		return profile.ErrProfileExists
	}
	if _, ok := r.bySlug[p.Slug]; ok {
		return profile.ErrSlugTaken
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.insert(p)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) FindBySlug(_ context.Context, slug string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.bySlug[slug]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes = append(r.probes, slug)
	_, ok := r.bySlug[slug]
	return ok, nil
}

func (r *memRepo) UpdateDisplayName(_ context.Context, id uuid.UUID, name string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	p.DisplayName = name
	cp := *p
	return &cp, nil
}

// memCache implements pkg/cache.Cache
type memCache struct {
	data map[string][]byte
	gets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Ping(context.Context) error { return nil }
