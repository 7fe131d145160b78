// Package inmem holds in-memory repositories and collaborators for tests.
package inmem

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/domain/profile"
	"github.com/scolardf/devconnector/internal/domain/user"
)

// Store backs the user, profile and post repositories with maps. Profiles are
// copied on the way in and out, like rows in a real table.
type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]user.User
	profiles map[uuid.UUID]profile.Profile
	posts    map[uuid.UUID]int64

	// FailSave makes every profile Save return this error.
	FailSave error
}

func NewStore() *Store {
	return &Store{
		users:    map[uuid.UUID]user.User{},
		profiles: map[uuid.UUID]profile.Profile{},
		posts:    map[uuid.UUID]int64{},
	}
}

func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s} }
func (s *Store) Posts() *PostRepo { return &PostRepo{s} }

// AddPosts records n posts written by userID.
func (s *Store) AddPosts(userID uuid.UUID, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[userID] += n
}

func (s *Store) PostCount(userID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[userID]
}

func (s *Store) HasUser(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok
}

func (s *Store) ProfileCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return r.s.withOwner(p), nil
}

func (r *ProfileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*profile.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, r.s.withOwner(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ProfileRepo) Save(_ context.Context, p *profile.Profile) error {
	if r.s.FailSave != nil {
		return r.s.FailSave
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := clone(*p)
	stored.User = nil
	r.s.profiles[p.UserID] = stored
	return nil
}

func (r *ProfileRepo) Delete(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.profiles, userID)
	return nil
}

type UserRepo struct{ s *Store }

func (r *UserRepo) Save(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type PostRepo struct{ s *Store }

func (r *PostRepo) DeleteByOwner(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := r.s.posts[userID]
	delete(r.s.posts, userID)
	return n, nil
}

func (s *Store) withOwner(p profile.Profile) *profile.Profile {
	c := clone(p)
	if u, ok := s.users[p.UserID]; ok {
		c.User = &profile.Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return &c
}

func clone(p profile.Profile) profile.Profile {
	p.Skills = append([]string{}, p.Skills...)
	p.Experience = append([]profile.Experience{}, p.Experience...)
	p.Education = append([]profile.Education{}, p.Education...)
	return p
}

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	events []service.ProfileEvent
}

func (p *Publisher) PublishProfileEvent(_ context.Context, ev service.ProfileEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *Publisher) Events() []service.ProfileEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.ProfileEvent{}, p.events...)
}

// RepoCache is a map backed service.RepoCache.
type RepoCache struct {
	mu      sync.Mutex
	entries map[string]json.RawMessage
}

func NewRepoCache() *RepoCache {
	return &RepoCache{entries: map[string]json.RawMessage{}}
}

func (c *RepoCache) Get(_ context.Context, username string) (json.RawMessage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.entries[username]
	return body, ok, nil
}

func (c *RepoCache) Set(_ context.Context, username string, body json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[username] = body
	return nil
}

func (c *RepoCache) Evict(_ context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, username)
	return nil
}

// RepoDirectory serves canned listings and counts calls.
type RepoDirectory struct {
	mu       sync.Mutex
	Listings map[string]json.RawMessage
	// Missing is returned for usernames without a listing.
	Missing error
	calls    int
}

func (d *RepoDirectory) ListRepos(_ context.Context, username string) (json.RawMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if body, ok := d.Listings[username]; ok {
		return body, nil
	}
	return nil, d.Missing
}

func (d *RepoDirectory) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}
