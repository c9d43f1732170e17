// Package study turns a topic's vocabulary into flashcards.
package study

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/blitzkarten/pkg/models"
)

var ErrEmptyDeck = errors.New("topic has no vocabulary to study")

// Set selects which form of a verb is on the back of the card
type Set int

const (
	Translation Set = iota
	PresentTense
	ImperfectTense
	PastParticiple
)

// Sets lists the study sets in menu order
var Sets = []Set{Translation, PresentTense, ImperfectTense, PastParticiple}

func (s Set) String() string {
	switch s {
	case PresentTense:
		return "Present Tense"
	case ImperfectTense:
		return "Imperfect Tense"
	case PastParticiple:
		return "Past Participle"
	}
	return "Translation"
}

// ParseSet looks a set up by its display name, case-insensitively
func ParseSet(name string) (Set, error) {
	for _, s := range Sets {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return Translation, fmt.Errorf("unknown study set %q", name)
}

// Back returns the text shown on the back of term's card.
// Unknown sets fall back to the translation.
func (s Set) Back(term models.Term) string {
	switch s {
	case PresentTense:
		return term.PresentTense
	case ImperfectTense:
		return term.ImperfectTense
	case PastParticiple:
		return term.PastParticiple
	}
	return term.Translation
}

// Card is one flashcard face pair
type Card struct {
	Index   int
	Total   int
	Front   string
	Back    string
	Flipped bool
}

// Text returns the visible face
func (c Card) Text() string {
	if c.Flipped {
		return c.Back
	}
	return c.Front
}

// Deck walks through a topic's vocabulary. The flip state carries over when
// moving between cards, so a flipped deck keeps showing backs.
type Deck struct {
	topic   models.Topic
	set     Set
	index   int
	flipped bool
}

// NewDeck creates a deck positioned on the first term
func NewDeck(topic models.Topic, set Set) (*Deck, error) {
	if len(topic.Vocabulary) == 0 {
		return nil, ErrEmptyDeck
	}
	return &Deck{topic: topic, set: set}, nil
}

func (d *Deck) Topic() models.Topic { return d.topic }
func (d *Deck) Set() Set            { return d.set }

// Current returns the card under the cursor
func (d *Deck) Current() Card {
	term := d.topic.Vocabulary[d.index]
	return Card{
		Index:   d.index,
		Total:   len(d.topic.Vocabulary),
		Front:   term.Infinitive,
		Back:    d.set.Back(term),
		Flipped: d.flipped,
	}
}

// Flip turns the card over
func (d *Deck) Flip() Card {
	d.flipped = !d.flipped
	return d.Current()
}

// Next moves to the following card; false at the end of the deck
func (d *Deck) Next() bool {
	if d.index+1 >= len(d.topic.Vocabulary) {
		return false
	}
	d.index++
	return true
}

// Prev moves to the previous card; false at the start of the deck
func (d *Deck) Prev() bool {
	if d.index == 0 {
		return false
	}
	d.index--
	return true
}

// SelectSet changes what the backs show, keeping position and flip state
func (d *Deck) SelectSet(s Set) {
	d.set = s
}

// AtEnd reports whether the last card is showing
func (d *Deck) AtEnd() bool {
	return d.index == len(d.topic.Vocabulary)-1
}
