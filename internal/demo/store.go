package demo

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps posts in memory.
type Store struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]Post
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{posts: make(map[uuid.UUID]Post), now: time.Now}
}

func (s *Store) Create(title, body string) Post {
	post := Post{
		ID:        uuid.New(),
		Title:     title,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.posts[post.ID] = post
	s.mu.Unlock()
	return post
}

func (s *Store) Get(id uuid.UUID) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	return post, ok
}

// List returns the posts oldest first.
func (s *Store) List() []Post {
	s.mu.RLock()
	out := make([]Post, 0, len(s.posts))
	for _, post := range s.posts {
		out = append(out, post)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
