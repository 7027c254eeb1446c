package discover

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Candidate is one profile in the discovery deck.
type Candidate struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Bio       string    `json:"bio"`
	Interests []string  `json:"interests,omitempty"`
}

// CandidateSource supplies batches of discovery candidates. The
// coordinator asks for a fresh batch whenever its cursor runs off the
// end of the current one.
type CandidateSource interface {
	Fetch(ctx context.Context, identity string) ([]Candidate, error)
}

// StaticSource serves a fixed deck, assigning IDs on first fetch. Used
// in development and tests; a real matching service plugs in behind the
// same interface.
type StaticSource struct {
	once sync.Once
	deck []Candidate
}

// NewStaticSource creates a source over the demo deck.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		deck: []Candidate{
			{Name: "Amara", Age: 26, Bio: "Coffee snob, trail runner, building things on Celo", Interests: []string{"running", "defi", "coffee"}},
			{Name: "Kofi", Age: 29, Bio: "Photographer chasing golden hour", Interests: []string{"photography", "travel"}},
			{Name: "Zainab", Age: 24, Bio: "Med student who cooks to decompress", Interests: []string{"cooking", "salsa"}},
			{Name: "Mateo", Age: 31, Bio: "Climber, occasional poet", Interests: []string{"climbing", "poetry"}},
			{Name: "Lena", Age: 27, Bio: "Product designer, plant parent of 23", Interests: []string{"design", "plants", "vinyl"}},
		},
	}
}

// Fetch returns the full demo deck.
func (s *StaticSource) Fetch(ctx context.Context, identity string) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(func() {
		for i := range s.deck {
			s.deck[i].ID = uuid.New()
		}
	})
	out := make([]Candidate, len(s.deck))
	copy(out, s.deck)
	return out, nil
}
