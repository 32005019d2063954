package model

import "fmt"

// Node is one decision-tree node. Leaves have Left == Right == -1 and carry
// the class distribution in Value.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

func (n Node) isLeaf() bool { return n.Left < 0 && n.Right < 0 }

// Tree is a fitted decision tree; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) validate(width, classes int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.isLeaf() {
			if len(n.Value) != classes {
				return fmt.Errorf("leaf %d has %d values, want %d", i, len(n.Value), classes)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("node %d splits on feature %d, width is %d", i, n.Feature, width)
		}
		// Children must come after their parent, which also rules out cycles.
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// leaf walks x down the tree: x[feature] <= threshold goes left.
func (t *Tree) leaf(x []float64) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.isLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
