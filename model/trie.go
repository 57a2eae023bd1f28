package model

import (
	"github.com/fumin/bitweaver/fixed"
)

// A Tag names the field of the LZ grammar a Trie node starts.
type Tag uint8

const (
	TagNone Tag = iota
	TagControl
	TagLiteral
	TagOffsetFlag
	TagOffsetShort
	TagOffsetHigh
	TagOffsetLow
	TagLengthFlag
	TagLengthShort
	TagLengthHigh
	TagLengthLow
)

var tagStrings = map[Tag]string{
	TagNone:        "none",
	TagControl:     "control",
	TagLiteral:     "literal",
	TagOffsetFlag:  "offset flag",
	TagOffsetShort: "short offset",
	TagOffsetHigh:  "extended offset high",
	TagOffsetLow:   "extended offset low",
	TagLengthFlag:  "length flag",
	TagLengthShort: "short length",
	TagLengthHigh:  "extended length high",
	TagLengthLow:   "extended length low",
}

func (t Tag) String() string {
	if s, ok := tagStrings[t]; ok {
		return s
	}
	return "unknown"
}

// noLink marks a child that routes back to the root.
const noLink int32 = -1

// A Node is a binary decision in a Trie.
type Node struct {
	Model Exponential

	// Next holds the index of the node following a 0 and a 1 bit.
	Next [2]int32

	Tag Tag

	// Mispredicted counts the bits that were given a probability below 1/2.
	Mispredicted uint64
	// Processed counts all bits coded at this node.
	Processed uint64
}

// FieldStats accumulates prediction accuracy over the nodes of a field.
type FieldStats struct {
	Processed    uint64
	Mispredicted uint64
}

// Accuracy returns the fraction of correctly predicted bits.
func (s FieldStats) Accuracy() float64 {
	if s.Processed == 0 {
		return 0
	}
	return 1 - float64(s.Mispredicted)/float64(s.Processed)
}

// A Trie is a binary model whose context is a position in a graph of nodes.
// Each coded bit is predicted by the current node, which then hands over to the child selected by the bit.
// Children may point back to earlier nodes, so the graph is stored as an arena addressed by index.
type Trie struct {
	nodes  []Node
	root   int32
	cursor int32
	params ExpParams
}

// NewTrie returns an empty Trie.
// Nodes are added with Add, Tree and Link, and the first node added is the root.
func NewTrie(params ExpParams) (*Trie, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Trie{params: params}, nil
}

// Add appends a node whose children route to the root, and returns its index.
func (t *Trie) Add(tag Tag) int32 {
	t.nodes = append(t.nodes, Node{
		Model: newExponential(t.params),
		Next:  [2]int32{noLink, noLink},
		Tag:   tag,
	})
	return int32(len(t.nodes) - 1)
}

// Link makes to the successor of from after bit.
func (t *Trie) Link(from int32, bit int, to int32) {
	t.nodes[from].Next[bit] = to
}

// Tree adds a complete binary tree coding depth bits, whose last level continues to cont,
// and returns the index of its top node, which is tagged with tag.
// A depth of zero adds nothing and returns cont.
func (t *Trie) Tree(depth int, tag Tag, cont int32) int32 {
	if depth == 0 {
		return cont
	}
	n := t.Add(tag)
	left := t.Tree(depth-1, TagNone, cont)
	right := t.Tree(depth-1, TagNone, cont)
	t.Link(n, 0, left)
	t.Link(n, 1, right)
	return n
}

// NewLZTrie returns the Trie for the token grammar of the LZ77 compressor.
//
// A token starts with a control bit at the root.
// A 0 is followed by the 8 bits of a literal.
// A 1 is followed by an offset and a length, each coded as one or two bytes whose first bit flags the second byte.
// Short and extended codes continue in separate trees, and every path leads back to the root.
func NewLZTrie(params ExpParams) (*Trie, error) {
	t, err := NewTrie(params)
	if err != nil {
		return nil, err
	}
	root := t.Add(TagControl)
	offsetFlag := t.Add(TagOffsetFlag)
	lengthFlag := t.Add(TagLengthFlag)

	t.Link(root, 0, t.Tree(8, TagLiteral, root))
	t.Link(root, 1, offsetFlag)
	t.field(offsetFlag, TagOffsetShort, TagOffsetHigh, TagOffsetLow, lengthFlag)
	t.field(lengthFlag, TagLengthShort, TagLengthHigh, TagLengthLow, root)
	return t, nil
}

func (t *Trie) field(flag int32, short, high, low Tag, cont int32) {
	t.Link(flag, 0, t.Tree(7, short, cont))
	lowTree := t.Tree(8, low, cont)
	t.Link(flag, 1, t.Tree(7, high, lowTree))
}

func (t *Trie) next(n int32, bit int) int32 {
	c := t.nodes[n].Next[bit]
	if c == noLink {
		return t.root
	}
	return c
}

// PValue returns the probability of bit at the current node.
func (t *Trie) PValue(bit int) uint64 {
	return t.nodes[t.cursor].Model.PValue(bit)
}

// Update records bit at the current node and moves to its successor.
func (t *Trie) Update(bit int) {
	n := &t.nodes[t.cursor]
	if n.Model.PValue(bit) < fixed.Half {
		n.Mispredicted++
	}
	n.Processed++
	n.Model.Update(bit)
	t.cursor = t.next(t.cursor, bit)
}

// Range returns 2.
func (t *Trie) Range() int {
	return 2
}

// Len returns the number of nodes.
func (t *Trie) Len() int {
	return len(t.nodes)
}

// Node returns the node at index i.
func (t *Trie) Node(i int32) Node {
	return t.nodes[i]
}

// Cursor returns the index of the current node.
func (t *Trie) Cursor() int32 {
	return t.cursor
}

// Reset moves the cursor back to the root, keeping the learned probabilities.
func (t *Trie) Reset() {
	t.cursor = t.root
}

// Stats aggregates the counters of every tagged node and the untagged nodes reachable from it without crossing another tagged node.
func (t *Trie) Stats() map[Tag]FieldStats {
	stats := make(map[Tag]FieldStats)
	visited := make([]bool, len(t.nodes))
	for i := range t.nodes {
		tag := t.nodes[i].Tag
		if tag == TagNone {
			continue
		}
		fs := stats[tag]
		stack := []int32{int32(i)}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[n] {
				continue
			}
			if n != int32(i) && t.nodes[n].Tag != TagNone {
				continue
			}
			visited[n] = true
			fs.Processed += t.nodes[n].Processed
			fs.Mispredicted += t.nodes[n].Mispredicted
			stack = append(stack, t.next(n, 0), t.next(n, 1))
		}
		stats[tag] = fs
	}
	return stats
}
