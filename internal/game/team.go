package game

import (
	"encoding/json"
	"fmt"
)

// Team is one of the two sides of a match. Every board cell, every score
// counter and every input is attributed to exactly one of them.
type Team int

const (
	TeamYellow Team = iota
	TeamBlue
)

func (t Team) Opponent() Team {
	if t == TeamYellow {
		return TeamBlue
	}
	return TeamYellow
}

func (t Team) String() string {
	if t == TeamYellow {
		return "YELLOW"
	}
	return "BLUE"
}

func (t Team) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Team) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "YELLOW":
		*t = TeamYellow
	case "BLUE":
		*t = TeamBlue
	default:
		return fmt.Errorf("unknown team %q", s)
	}
	return nil
}

// Pos is a (row, col) board coordinate. Value type, usable as a map key.
type Pos struct {
	R int `json:"r"`
	C int `json:"c"`
}
