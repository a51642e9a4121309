// Package quiz drives study sessions over a fixed deck of notes: show a
// title, reveal the body on demand, then step forward or back. Stepping
// wraps around at either end.
package quiz

import (
	"errors"

	"github.com/linguanote/linguanote/internal/model"
)

// ErrEmptyDeck is returned when a session is started with no notes.
var ErrEmptyDeck = errors.New("quiz: no notes to study")

// Card is one quiz item.
type Card struct {
	NoteID  string
	Title   string
	Content string
}

// Sequencer steps through a deck. It is not safe for concurrent use;
// callers drive it from a single goroutine.
type Sequencer struct {
	deck     []Card
	pos      int
	revealed bool
}

// New builds a sequencer over notes in the given order.
func New(notes []*model.Note) (*Sequencer, error) {
	if len(notes) == 0 {
		return nil, ErrEmptyDeck
	}
	deck := make([]Card, len(notes))
	for i, n := range notes {
		deck[i] = Card{NoteID: n.NoteID, Title: n.Title, Content: n.Content}
	}
	return &Sequencer{deck: deck}, nil
}

// Len reports the deck size.
func (s *Sequencer) Len() int { return len(s.deck) }

// Pos reports the zero-based position of the current card.
func (s *Sequencer) Pos() int { return s.pos }

// Current returns the card under study and whether its body is revealed.
func (s *Sequencer) Current() (Card, bool) {
	return s.deck[s.pos], s.revealed
}

// Reveal shows the current card's body. Revealing twice is a no-op.
func (s *Sequencer) Reveal() { s.revealed = true }

// Next advances to the following card, wrapping to the first after the
// last, and hides the new card's body.
func (s *Sequencer) Next() Card {
	s.pos = (s.pos + 1) % len(s.deck)
	s.revealed = false
	return s.deck[s.pos]
}

// Prev steps back one card, wrapping to the last before the first, and
// hides the new card's body.
func (s *Sequencer) Prev() Card {
	s.pos = (s.pos - 1 + len(s.deck)) % len(s.deck)
	s.revealed = false
	return s.deck[s.pos]
}
