package bitweaver

import (
	"github.com/pkg/errors"

	"github.com/fumin/bitweaver/match"
)

// Costs in bits, used to choose between literals and matches.
// Every token costs a control bit, and every byte of it 8 bits.
const (
	controlCost = 1
	byteCost    = 8
	literalCost = controlCost + byteCost
)

// A Token is either a literal byte or a back reference.
type Token struct {
	Match bool
	// Offset is the distance back to the start of the copy. Zero for literals.
	Offset int
	// Length is the number of bytes the token produces, 1 for literals.
	Length int
}

func (t Token) cost() int {
	if !t.Match {
		return literalCost
	}
	return matchCost(t.Offset, t.Length)
}

func matchCost(offset, length int) int {
	return controlCost + byteCost*(Len15(offset)+Len15(length))
}

// Cost returns the size in bits tokens take before entropy coding.
func Cost(tokens []Token) int {
	var c int
	for _, t := range tokens {
		c += t.cost()
	}
	return c
}

// Tokenize splits data into the tokens Encode codes.
func Tokenize(data []byte, opts ...Option) ([]Token, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return tokenize(data, cfg)
}

func tokenize(data []byte, cfg *Config) ([]Token, error) {
	f, err := cfg.Finder.New(data, cfg.Window)
	if err != nil {
		return nil, err
	}
	var tokens []Token
	switch cfg.Parser {
	case Greedy:
		tokens = greedy(data, f)
	case Optimal:
		if tokens, err = optimal(data, f); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrConfig, "parser %d", cfg.Parser)
	}

	if cfg.Logger != nil {
		var matches, matched int
		for _, t := range tokens {
			if t.Match {
				matches++
				matched += t.Length
			}
		}
		literals := len(tokens) - matches
		var pct float64
		if len(data) > 0 {
			pct = 100 * float64(matched) / float64(len(data))
		}
		cfg.logf("%s: %d matches covering %d bytes (%.2f%%), %d literals, cost %d bits", cfg.Parser, matches, matched, pct, literals, Cost(tokens))
	}
	return tokens, nil
}

// greedy takes the longest match at every position, as long as its code is shorter than the bytes it replaces.
func greedy(data []byte, f match.Finder) []Token {
	var tokens []Token
	for i := 0; i < len(data); {
		m := f.Longest(i)
		if m.Length >= match.MinLength && Len15(m.Offset)+Len15(m.Length) < m.Length {
			tokens = append(tokens, Token{Match: true, Offset: m.Offset, Length: m.Length})
			i += m.Length
			continue
		}
		tokens = append(tokens, Token{Length: 1})
		i++
	}
	return tokens
}

// A parseNode is the cheapest way to code the input from its position to the end.
type parseNode struct {
	Match  bool
	Length int
	Offset int
	Cost   int
	// Next is the position the following node starts at.
	Next int
}

// optimal finds the cheapest parse by dynamic programming from the end of data backwards.
// A match replaces a literal only if it is strictly cheaper, so ties go to literals,
// and among equally cheap matches the one at the smallest offset, then the shortest, wins.
func optimal(data []byte, f match.Finder) ([]Token, error) {
	n := len(data)
	nodes := make([]parseNode, n+1)
	nodes[n] = parseNode{Next: n}
	costs := newCostTree(nodes)
	costs.update(n)
	var runs []match.Match
	for i := n - 1; i >= 0; i-- {
		best := parseNode{Length: 1, Cost: literalCost + nodes[i+1].Cost, Next: i + 1}
		// Within a run the offset is fixed, and the code of the length takes one byte below 128 and two above,
		// so each class is settled by the cheapest node it can reach.
		runs = f.Runs(i, runs)
		from := match.MinLength
		for _, r := range runs {
			classes := [2][2]int{{from, r.Length}, {from, r.Length}}
			if classes[0][1] > 0x7f {
				classes[0][1] = 0x7f
			}
			if classes[1][0] < 0x80 {
				classes[1][0] = 0x80
			}
			for _, c := range classes {
				if c[0] > c[1] {
					continue
				}
				l := costs.min(i+c[0], i+c[1]) - i
				cost := matchCost(r.Offset, l) + nodes[i+l].Cost
				if cost < best.Cost {
					best = parseNode{Match: true, Length: l, Offset: r.Offset, Cost: cost, Next: i + l}
				}
			}
			from = r.Length + 1
		}
		nodes[i] = best
		costs.update(i)
	}

	var tokens []Token
	for i := 0; i < n; i = nodes[i].Next {
		nd := nodes[i]
		t := Token{Match: nd.Match, Offset: nd.Offset, Length: nd.Length}
		if t.cost()+nodes[nd.Next].Cost != nd.Cost {
			return nil, errors.Wrapf(ErrParse, "position %d: %d + %d != %d", i, t.cost(), nodes[nd.Next].Cost, nd.Cost)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// A costTree answers range minimum queries over the costs of parse nodes, preferring the earliest position on ties.
// Positions are updated from the end backwards, and only ranges of updated positions are queried.
type costTree struct {
	nodes []parseNode
	// tree[len(nodes)+p] is leaf p, tree[k] the better of tree[2k] and tree[2k+1].
	tree []int
}

func newCostTree(nodes []parseNode) *costTree {
	return &costTree{nodes: nodes, tree: make([]int, 2*len(nodes))}
}

func (t *costTree) better(a, b int) int {
	if a < 0 {
		return b
	}
	ca, cb := t.nodes[a].Cost, t.nodes[b].Cost
	if cb < ca || (cb == ca && b < a) {
		return b
	}
	return a
}

func (t *costTree) update(p int) {
	k := p + len(t.nodes)
	t.tree[k] = p
	for k > 1 {
		k >>= 1
		t.tree[k] = t.better(t.tree[2*k], t.tree[2*k+1])
	}
}

// min returns the position in [l, r] with the lowest cost.
func (t *costTree) min(l, r int) int {
	best := -1
	for l, r = l+len(t.nodes), r+len(t.nodes)+1; l < r; l, r = l>>1, r>>1 {
		if l&1 == 1 {
			best = t.better(best, t.tree[l])
			l++
		}
		if r&1 == 1 {
			r--
			best = t.better(best, t.tree[r])
		}
	}
	return best
}
