package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blitzkarten/pkg/models"
)

var backen = models.Term{
	Infinitive:     "backen",
	Translation:    "bake",
	PresentTense:   "backt",
	ImperfectTense: "backte",
	PastParticiple: "gebacken",
}

var essen = models.Term{
	Infinitive:     "essen",
	Translation:    "eat",
	PresentTense:   "isst",
	ImperfectTense: "aß",
	PastParticiple: "gegessen",
}

func TestSetBack(t *testing.T) {
	tests := []struct {
		set  Set
		want string
	}{
		{Translation, "bake"},
		{PresentTense, "backt"},
		{ImperfectTense, "backte"},
		{PastParticiple, "gebacken"},
		{Set(42), "bake"},
	}
	for _, tt := range tests {
		t.Run(tt.set.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.set.Back(backen))
		})
	}
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet("imperfect tense")
	require.NoError(t, err)
	assert.Equal(t, ImperfectTense, s)

	_, err = ParseSet("Future")
	assert.Error(t, err)
}

func TestDeckNavigation(t *testing.T) {
	d, err := NewDeck(models.Topic{Title: "T", Vocabulary: []models.Term{backen, essen}}, Translation)
	require.NoError(t, err)

	card := d.Current()
	assert.Equal(t, "backen", card.Text())
	assert.Equal(t, 2, card.Total)
	assert.False(t, d.Prev())

	card = d.Flip()
	assert.True(t, card.Flipped)
	assert.Equal(t, "bake", card.Text())

	require.True(t, d.Next())
	assert.True(t, d.AtEnd())
	assert.Equal(t, "eat", d.Current().Text())
	assert.False(t, d.Next())

	d.SelectSet(PastParticiple)
	assert.Equal(t, "gegessen", d.Current().Text())

	require.True(t, d.Prev())
	d.Flip()
	assert.Equal(t, "backen", d.Current().Text())
	assert.Equal(t, "gebacken", d.Current().Back)
}

func TestNewDeckEmpty(t *testing.T) {
	_, err := NewDeck(models.Topic{Title: "Empty"}, Translation)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}
