package corpus

import (
	"fmt"

	"lexresearch-backend/models"
)

// CollisionPolicy decides which record survives when two share an id
type CollisionPolicy string

const (
	LastWriteWins  CollisionPolicy = "last_write_wins"
	FirstWriteWins CollisionPolicy = "first_write_wins"
)

// ParseCollisionPolicy accepts the policy names plus the short forms "last" and "first"
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "", "last", string(LastWriteWins):
		return LastWriteWins, nil
	case "first", string(FirstWriteWins):
		return FirstWriteWins, nil
	default:
		return "", fmt.Errorf("unknown id collision policy: %s", s)
	}
}

// Store is an ordered, id-unique set of authorities. It is read-only after construction.
type Store struct {
	authorities []*models.Authority
	byID        map[string]*models.Authority
	collisions  int
}

// NewStore deduplicates authorities by id. An authority that replaces an earlier
// one under last-write-wins keeps the earlier one's position.
func NewStore(authorities []*models.Authority, policy CollisionPolicy) *Store {
	s := &Store{
		authorities: make([]*models.Authority, 0, len(authorities)),
		byID:        make(map[string]*models.Authority, len(authorities)),
	}
	position := make(map[string]int, len(authorities))

	for _, a := range authorities {
		idx, exists := position[a.ID]
		if !exists {
			position[a.ID] = len(s.authorities)
			s.authorities = append(s.authorities, a)
			s.byID[a.ID] = a
			continue
		}
		s.collisions++
		if policy == FirstWriteWins {
			continue
		}
		s.authorities[idx] = a
		s.byID[a.ID] = a
	}
	return s
}

// All returns the authorities in store order
func (s *Store) All() []*models.Authority {
	return s.authorities
}

// Get looks up an authority by id
func (s *Store) Get(id string) (*models.Authority, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Len returns the number of authorities
func (s *Store) Len() int {
	return len(s.authorities)
}

// Collisions returns how many records were resolved by the collision policy
func (s *Store) Collisions() int {
	return s.collisions
}
