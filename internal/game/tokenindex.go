package game

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize is the single normalization rule applied to both board tokens and
// typed input: trim, NFKC (folds full-width/half-width variants), then a
// locale-independent lowercase. "Apple", "Ａｐｐｌｅ" and " apple " all
// normalize to the same key.
func Normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(s)))
}

// TokenIndex maps team -> normalized token -> positions, so a word input
// finds its target cells without scanning the board. It is owned by exactly
// one GameModel and guarded by that model's lock; order within a bucket is
// insertion order and decides which cell flips first.
type TokenIndex struct {
	byOwner map[Team]map[string][]Pos
}

func NewTokenIndex() *TokenIndex {
	return &TokenIndex{byOwner: map[Team]map[string][]Pos{
		TeamYellow: {},
		TeamBlue:   {},
	}}
}

func (ix *TokenIndex) Add(owner Team, rawToken string, pos Pos) {
	token := Normalize(rawToken)
	ix.byOwner[owner][token] = append(ix.byOwner[owner][token], pos)
}

// Remove deletes pos from the owner's bucket. An emptied bucket is dropped so
// stale keys never accumulate.
func (ix *TokenIndex) Remove(owner Team, rawToken string, pos Pos) {
	token := Normalize(rawToken)
	bucket, ok := ix.byOwner[owner][token]
	if !ok {
		return
	}
	for i, p := range bucket {
		if p == pos {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(ix.byOwner[owner], token)
		return
	}
	ix.byOwner[owner][token] = bucket
}

// PositionsOf returns a copy of the bucket; callers must not assume it tracks
// later mutations.
func (ix *TokenIndex) PositionsOf(owner Team, rawToken string) []Pos {
	bucket := ix.byOwner[owner][Normalize(rawToken)]
	if len(bucket) == 0 {
		return nil
	}
	out := make([]Pos, len(bucket))
	copy(out, bucket)
	return out
}
