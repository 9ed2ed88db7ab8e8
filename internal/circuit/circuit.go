package circuit

import "fmt"

// Circuit is an ordered collection of nodes forming a DAG: every fanin index
// referenced by a node precedes that node's own index. PIs, KIs and POs are
// tracked as ordered index lists into Nodes so that bit-vector positions
// (primary input n is always PIs[n], and so on) stay stable for the whole
// lifetime of the circuit.
type Circuit struct {
	Nodes []Node
	PIs   []int
	KIs   []int
	POs   []int

	fanout map[int][]int
}

// New returns an empty circuit ready to accept nodes.
func New() *Circuit {
	return &Circuit{}
}

// AddNode appends a new node and returns its index. Fanin indices must
// already exist; this is what keeps the node vector topologically ordered
// by construction. PrimaryOutput nodes must carry exactly one fanin.
func (c *Circuit) AddNode(kind Kind, fn GateFunc, fanins []int, name string) (int, error) {
	for _, fi := range fanins {
		if fi < 0 || fi >= len(c.Nodes) {
			return 0, fmt.Errorf("circuit: fanin %d does not exist (have %d nodes)", fi, len(c.Nodes))
		}
	}
	if kind == PrimaryOutput && len(fanins) != 1 {
		return 0, fmt.Errorf("circuit: primary output %q must have exactly one fanin, got %d", name, len(fanins))
	}
	if (kind == PrimaryInput || kind == KeyInput) && len(fanins) != 0 {
		return 0, fmt.Errorf("circuit: %s %q must have no fanins", kind, name)
	}

	idx := len(c.Nodes)
	c.Nodes = append(c.Nodes, Node{
		Index:  idx,
		Kind:   kind,
		Func:   fn,
		Fanins: fanins,
		Name:   name,
	})
	c.fanout = nil // invalidate cache

	switch kind {
	case PrimaryInput:
		c.PIs = append(c.PIs, idx)
	case KeyInput:
		c.KIs = append(c.KIs, idx)
	case PrimaryOutput:
		c.POs = append(c.POs, idx)
	}
	return idx, nil
}

// NumPI, NumKI and NumPO return the arities of the three boundary
// interfaces.
func (c *Circuit) NumPI() int { return len(c.PIs) }
func (c *Circuit) NumKI() int { return len(c.KIs) }
func (c *Circuit) NumPO() int { return len(c.POs) }

// TopoIter returns node indices in a stable topological order. Because
// AddNode is append-only and rejects forward references, index order is
// already topological; this exists as its own operation so callers never
// need to know that invariant to get a safe walk.
func (c *Circuit) TopoIter() []int {
	order := make([]int, len(c.Nodes))
	for i := range order {
		order[i] = i
	}
	return order
}

// Fanout returns the indices of nodes that list idx as a fanin. Built
// lazily on first use and cached; there are no back-pointers from nodes to
// their consumers, per the "no back-pointers" design rule.
func (c *Circuit) Fanout(idx int) []int {
	if c.fanout == nil {
		c.fanout = make(map[int][]int, len(c.Nodes))
		for _, n := range c.Nodes {
			for _, fi := range n.Fanins {
				c.fanout[fi] = append(c.fanout[fi], n.Index)
			}
		}
	}
	return c.fanout[idx]
}
