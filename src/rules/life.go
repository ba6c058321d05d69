package rules

import (
	"errors"
	"fmt"
	"strings"

	"exlife/src/automata"
	"exlife/src/grid"
)

//Cell states shared by the rules of this package
const (
	Dead  uint8 = 0
	Alive uint8 = 1
)

//ErrBadRulestring is returned for rulestrings that are not in B/S or S/B notation
var ErrBadRulestring = errors.New("rules: bad rulestring")

//LifeLike is an outer totalistic two state rule on the Moore neighborhood
type LifeLike struct {
	born    [9]bool
	survive [9]bool
}

//Life returns Conway's Game of Life, B3/S23
func Life() *LifeLike {
	l, _ := ParseLifeLike("B3/S23")
	return l
}

//ParseLifeLike parses "B3/S23" style rulestrings as well as the older "23/3" survive/born form
func ParseLifeLike(rule string) (*LifeLike, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(rule)), "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrBadRulestring, rule)
	}
	born, survive := parts[0], parts[1]
	switch {
	case strings.HasPrefix(born, "B") && strings.HasPrefix(survive, "S"):
		born, survive = born[1:], survive[1:]
	case strings.HasPrefix(born, "S") && strings.HasPrefix(survive, "B"):
		born, survive = survive[1:], born[1:]
	case born == "" && survive == "":
		return nil, fmt.Errorf("%w: %q", ErrBadRulestring, rule)
	default:
		born, survive = survive, born
	}
	l := &LifeLike{}
	if err := parseCounts(born, &l.born); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadRulestring, rule, err)
	}
	if err := parseCounts(survive, &l.survive); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadRulestring, rule, err)
	}
	return l, nil
}

func parseCounts(s string, dst *[9]bool) error {
	for _, r := range s {
		if r < '0' || r > '8' {
			return fmt.Errorf("neighbor count %q", r)
		}
		dst[r-'0'] = true
	}
	return nil
}

//String returns the rule in B/S notation
func (l *LifeLike) String() string {
	var b strings.Builder
	b.WriteByte('B')
	writeCounts(&b, l.born)
	b.WriteString("/S")
	writeCounts(&b, l.survive)
	return b.String()
}

func writeCounts(b *strings.Builder, counts [9]bool) {
	for n, set := range counts {
		if set {
			b.WriteByte(byte('0' + n))
		}
	}
}

func (l *LifeLike) Expansion(c *grid.Chunk[uint8]) automata.Expansion {
	if l.born[0] {
		//births out of nothing reach every neighbor
		return automata.ExpandAll
	}
	return automata.BorderExpansion(c, l.EmptyCell)
}

func (l *LifeLike) Simulate(pos grid.GlobalPos, prev *grid.Grid[uint8]) uint8 {
	n := countNeighbors(pos, prev, Alive)
	cur, _ := prev.Get(pos)
	if cur == Alive && l.survive[n] || cur != Alive && l.born[n] {
		return Alive
	}
	return Dead
}

func (l *LifeLike) EmptyCell(v uint8) bool { return v == Dead }

//countNeighbors counts the Moore neighbors of pos holding state
func countNeighbors(pos grid.GlobalPos, g *grid.Grid[uint8], state uint8) int {
	n := 0
	for dy := int64(-1); dy <= 1; dy++ {
		for dx := int64(-1); dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if v, _ := g.Get(pos.Add(dx, dy)); v == state {
				n++
			}
		}
	}
	return n
}
