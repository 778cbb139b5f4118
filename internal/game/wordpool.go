package game

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"sync"
)

// WordPool supplies replacement tokens for flipped cells. Built from a board
// it is deterministic: the shuffle is seeded by the board content, so the
// server and a lock-step client replica draw the exact same sequence.
type WordPool struct {
	mu   sync.Mutex
	pool []string
	idx  int
}

func NewWordPool(words []string) *WordPool {
	return &WordPool{pool: words}
}

func WordPoolFromBoard(b *Board, words []string) *WordPool {
	pool := filterTokens(words)
	if len(pool) == 0 {
		// fall back to whatever is already on the board
		for r := 0; r < b.Rows(); r++ {
			for c := 0; c < b.Cols(); c++ {
				pool = append(pool, b.Get(r, c).Token())
			}
		}
	}
	rng := rand.New(rand.NewSource(boardSeed(b)))
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return &WordPool{pool: pool}
}

// NextToken returns the next pool entry, skipping avoid while the pool has an
// alternative. An empty pool returns avoid unchanged.
func (wp *WordPool) NextToken(avoid string) string {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if len(wp.pool) == 0 {
		return avoid
	}
	for attempts := len(wp.pool); attempts > 0; attempts-- {
		candidate := wp.pool[wp.idx%len(wp.pool)]
		wp.idx++
		if candidate != avoid {
			return candidate
		}
	}
	candidate := wp.pool[wp.idx%len(wp.pool)]
	wp.idx++
	return candidate
}

// boardSeed folds the dimensions and every token into an FNV-1a hash. Any two
// identical boards seed identical pools.
func boardSeed(b *Board) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(b.Rows()))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(b.Cols()))
	h.Write(buf[:])
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			if cell := b.Get(r, c); cell != nil {
				h.Write([]byte(cell.Token()))
			}
		}
	}
	return int64(h.Sum64())
}
