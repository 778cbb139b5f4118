package game

import "math/rand"

// Cell is one slot of the board: an owning team and the token printed on it.
// Both change when the cell is flipped. Mutation goes through the GameModel
// so the token index never falls out of step.
type Cell struct {
	owner Team
	token string
}

func NewCell(owner Team, token string) *Cell {
	return &Cell{owner: owner, token: token}
}

func (c *Cell) Owner() Team   { return c.owner }
func (c *Cell) Token() string { return c.token }

func (c *Cell) setOwner(owner Team)   { c.owner = owner }
func (c *Cell) setToken(token string) { c.token = token }

// Board is a fixed rows x cols grid. Out-of-range Get returns nil and
// out-of-range Set is a no-op, which keeps index maintenance free of bounds
// errors.
type Board struct {
	rows  int
	cols  int
	cells [][]*Cell
}

func NewBoard(rows, cols int) *Board {
	cells := make([][]*Cell, rows)
	for r := range cells {
		cells[r] = make([]*Cell, cols)
	}
	return &Board{rows: rows, cols: cols, cells: cells}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

func (b *Board) Get(r, c int) *Cell {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		return nil
	}
	return b.cells[r][c]
}

func (b *Board) Set(r, c int, cell *Cell) {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		return
	}
	b.cells[r][c] = cell
}

// CellSnapshot is the wire form of one cell.
type CellSnapshot struct {
	Owner Team   `json:"owner"`
	Token string `json:"token"`
}

// Snapshot captures the whole grid for the game-start message.
func (b *Board) Snapshot() [][]CellSnapshot {
	grid := make([][]CellSnapshot, b.rows)
	for r := 0; r < b.rows; r++ {
		grid[r] = make([]CellSnapshot, b.cols)
		for c := 0; c < b.cols; c++ {
			cell := b.cells[r][c]
			grid[r][c] = CellSnapshot{Owner: cell.Owner(), Token: cell.Token()}
		}
	}
	return grid
}

// FillBoard populates every cell and registers it in the index. The top half
// of the rows belongs to YELLOW, the bottom half to BLUE. Tokens come from
// the word list, repeated as needed to cover the grid and shuffled.
func FillBoard(b *Board, ix *TokenIndex, words []string) {
	filtered := filterTokens(words)
	if len(filtered) == 0 {
		filtered = fallbackWords
	}

	total := b.Rows() * b.Cols()
	pool := make([]string, 0, total)
	for len(pool) < total {
		pool = append(pool, filtered...)
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	i := 0
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			token := pool[i%len(pool)]
			i++
			owner := TeamBlue
			if r < b.Rows()/2 {
				owner = TeamYellow
			}
			b.Set(r, c, NewCell(owner, token))
			ix.Add(owner, token, Pos{R: r, C: c})
		}
	}
}
