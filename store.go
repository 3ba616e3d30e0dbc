package main

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrToyNotFound = errors.New("toy not found")
	ErrDuplicateID = errors.New("duplicate toy id")
)

// ToyStore persists the /toys collection in insertion order.
type ToyStore interface {
	List(ctx context.Context) ([]Toy, error)
	Get(ctx context.Context, id int) (Toy, error)
	// Create stores toy. A zero ID is replaced by the next free one.
	Create(ctx context.Context, toy Toy) (Toy, error)
	Update(ctx context.Context, id int, patch ToyPatch) (Toy, error)
	Delete(ctx context.Context, id int) error
}

// MemoryStore keeps toys in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	toys []Toy
}

func NewMemoryStore(seed ...Toy) *MemoryStore {
	return &MemoryStore{toys: append([]Toy(nil), seed...)}
}

func (s *MemoryStore) List(_ context.Context) ([]Toy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Toy{}, s.toys...), nil
}

func (s *MemoryStore) Get(_ context.Context, id int) (Toy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := findToyIndex(s.toys, id)
	if i == -1 {
		return Toy{}, ErrToyNotFound
	}
	return s.toys[i], nil
}

func (s *MemoryStore) Create(_ context.Context, toy Toy) (Toy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	toys, toy, err := insertToy(s.toys, toy)
	if err != nil {
		return Toy{}, err
	}
	s.toys = toys
	return toy, nil
}

func (s *MemoryStore) Update(_ context.Context, id int, patch ToyPatch) (Toy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findToyIndex(s.toys, id)
	if i == -1 {
		return Toy{}, ErrToyNotFound
	}
	patch.apply(&s.toys[i])
	return s.toys[i], nil
}

func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	toys, err := removeToy(s.toys, id)
	if err != nil {
		return err
	}
	s.toys = toys
	return nil
}

func findToyIndex(toys []Toy, id int) int {
	for i, t := range toys {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func insertToy(toys []Toy, toy Toy) ([]Toy, Toy, error) {
	if toy.ID == 0 {
		maxID := 0
		for _, t := range toys {
			if t.ID > maxID {
				maxID = t.ID
			}
		}
		toy.ID = maxID + 1
	} else if findToyIndex(toys, toy.ID) != -1 {
		return toys, Toy{}, ErrDuplicateID
	}
	return append(toys, toy), toy, nil
}

func removeToy(toys []Toy, id int) ([]Toy, error) {
	i := findToyIndex(toys, id)
	if i == -1 {
		return toys, ErrToyNotFound
	}
	return append(toys[:i:i], toys[i+1:]...), nil
}
