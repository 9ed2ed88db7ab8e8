package circuit

// Pair is the pair-map entry produced by Dup: the indices of a source
// node's two copies in the duplicated circuit.
type Pair struct {
	A, B int
}

// DupPolicy selects which node kinds get a single shared copy versus two
// independent copies when Dup builds its second circuit.
type DupPolicy struct {
	// ShareInputs, when true, gives every PrimaryInput a single node
	// shared by both copies ("share-primary-inputs"). When false, PIs
	// are duplicated like any other node.
	ShareInputs bool
	// DuplicateKeys, when true, gives every KeyInput two independent
	// nodes ("duplicate-all-keys"). When false, KIs are shared like a
	// shared PI would be.
	DuplicateKeys bool
}

// DuplicateAllKeysSharePrimaryInputs is the policy the miter uses: x is
// shared between the two copies, k is not.
func DuplicateAllKeysSharePrimaryInputs() DupPolicy {
	return DupPolicy{ShareInputs: true, DuplicateKeys: true}
}

// Dup produces an independent second copy of every node satisfying policy,
// returning the new circuit and a pair-map from every source index to its
// two (possibly identical, for shared nodes) copies in the result.
func (c *Circuit) Dup(policy DupPolicy) (*Circuit, map[int]Pair, error) {
	dup := New()
	pairs := make(map[int]Pair, len(c.Nodes))

	remap := func(fanin int) (int, int) {
		p := pairs[fanin]
		return p.A, p.B
	}

	for _, n := range c.Nodes {
		switch n.Kind {
		case PrimaryInput:
			if policy.ShareInputs {
				idx, err := dup.AddNode(PrimaryInput, Buf, nil, n.Name)
				if err != nil {
					return nil, nil, err
				}
				pairs[n.Index] = Pair{A: idx, B: idx}
			} else {
				a, err := dup.AddNode(PrimaryInput, Buf, nil, n.Name+"#A")
				if err != nil {
					return nil, nil, err
				}
				b, err := dup.AddNode(PrimaryInput, Buf, nil, n.Name+"#B")
				if err != nil {
					return nil, nil, err
				}
				pairs[n.Index] = Pair{A: a, B: b}
			}
		case KeyInput:
			if policy.DuplicateKeys {
				a, err := dup.AddNode(KeyInput, Buf, nil, n.Name+"#A")
				if err != nil {
					return nil, nil, err
				}
				b, err := dup.AddNode(KeyInput, Buf, nil, n.Name+"#B")
				if err != nil {
					return nil, nil, err
				}
				pairs[n.Index] = Pair{A: a, B: b}
			} else {
				idx, err := dup.AddNode(KeyInput, Buf, nil, n.Name)
				if err != nil {
					return nil, nil, err
				}
				pairs[n.Index] = Pair{A: idx, B: idx}
			}
		case Gate, PrimaryOutput:
			faninsA := make([]int, len(n.Fanins))
			faninsB := make([]int, len(n.Fanins))
			for i, fi := range n.Fanins {
				a, b := remap(fi)
				faninsA[i] = a
				faninsB[i] = b
			}
			a, err := dup.AddNode(n.Kind, n.Func, faninsA, n.Name+"#A")
			if err != nil {
				return nil, nil, err
			}
			b, err := dup.AddNode(n.Kind, n.Func, faninsB, n.Name+"#B")
			if err != nil {
				return nil, nil, err
			}
			pairs[n.Index] = Pair{A: a, B: b}
		}
	}

	// The duplicated PrimaryOutput nodes are internal wires of the
	// doubled circuit now (the miter installs its own single PO, l_out),
	// so they are not listed in dup.POs even though their Kind still
	// records what they used to be.
	dup.POs = nil

	return dup, pairs, nil
}
