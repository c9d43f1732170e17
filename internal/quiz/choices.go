package quiz

import (
	"math/rand"

	"github.com/example/blitzkarten/pkg/models"
)

// MaxChoices is the number of answer options offered per question
const MaxChoices = 4

// Choices returns the answer options for question i: the correct
// translation plus up to MaxChoices-1 distinct other translations from the
// same vocabulary, in random order. The correct translation appears once.
func Choices(vocabulary []models.Term, i int, rnd *rand.Rand) []string {
	correct := vocabulary[i].Translation

	// Distinct wrong translations, in vocabulary order
	seen := map[string]bool{correct: true}
	pool := make([]string, 0, len(vocabulary))
	for _, term := range vocabulary {
		if seen[term.Translation] {
			continue
		}
		seen[term.Translation] = true
		pool = append(pool, term.Translation)
	}

	// Shuffle the pool and take the first few
	rnd.Shuffle(len(pool), func(a, b int) {
		pool[a], pool[b] = pool[b], pool[a]
	})
	if len(pool) > MaxChoices-1 {
		pool = pool[:MaxChoices-1]
	}

	options := append(pool, correct)
	rnd.Shuffle(len(options), func(a, b int) {
		options[a], options[b] = options[b], options[a]
	})
	return options
}
