package game

import "math/rand"

// SentencePool holds the full sentences offered during the bonus phase.
type SentencePool struct {
	sentences []string
}

func NewSentencePool(sentences []string) *SentencePool {
	return &SentencePool{sentences: sentences}
}

// RandomSentences returns up to count sentences from a fresh shuffle.
func (sp *SentencePool) RandomSentences(count int) []string {
	if len(sp.sentences) == 0 || count <= 0 {
		return nil
	}
	shuffled := append([]string(nil), sp.sentences...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
