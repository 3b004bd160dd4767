package ml

import (
	"github.com/rotisserie/eris"
)

// DecisionTree is a fitted binary tree stored as a flat node slice with the
// root at index 0.
type DecisionTree struct {
	Classes []int      `json:"classes"`
	Nodes   []TreeNode `json:"nodes"`
}

// TreeNode is one split or leaf. Leaves carry per-class training counts.
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	Value      []float64 `json:"value"`
	IsLeaf     bool      `json:"is_leaf"`
}

func (dt *DecisionTree) validate() error {
	if err := validateClasses(dt.Classes); err != nil {
		return eris.Wrap(err, "decision tree")
	}
	if len(dt.Nodes) == 0 {
		return eris.New("decision tree: no nodes")
	}
	for i, node := range dt.Nodes {
		if node.IsLeaf {
			if len(node.Value) != len(dt.Classes) {
				return eris.Errorf("decision tree: leaf %d has %d class counts", i, len(node.Value))
			}
			total := 0.0
			for _, v := range node.Value {
				if v < 0 {
					return eris.Errorf("decision tree: leaf %d has a negative count", i)
				}
				total += v
			}
			if total == 0 {
				return eris.Errorf("decision tree: leaf %d is empty", i)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= FeatureCount() {
			return eris.Errorf("decision tree: node %d feature index %d out of range", i, node.FeatureIdx)
		}
		// children always come after their parent, so walks terminate
		if node.LeftChild <= i || node.LeftChild >= len(dt.Nodes) ||
			node.RightChild <= i || node.RightChild >= len(dt.Nodes) {
			return eris.Errorf("decision tree: node %d has invalid children", i)
		}
	}
	return nil
}

// Predict returns the majority class of the leaf row falls into.
func (dt *DecisionTree) Predict(row []float64) (int, error) {
	leaf, err := dt.leaf(row)
	if err != nil {
		return 0, err
	}
	return dt.Classes[argmax(leaf.Value)], nil
}

// PredictProba returns the normalized class counts of the leaf row falls into.
func (dt *DecisionTree) PredictProba(row []float64) ([]float64, error) {
	leaf, err := dt.leaf(row)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, v := range leaf.Value {
		total += v
	}
	proba := make([]float64, len(leaf.Value))
	for i, v := range leaf.Value {
		proba[i] = v / total
	}
	return proba, nil
}

func (dt *DecisionTree) leaf(row []float64) (TreeNode, error) {
	if err := checkWidth(row, FeatureCount()); err != nil {
		return TreeNode{}, eris.Wrap(err, "decision tree")
	}
	idx := 0
	for {
		node := dt.Nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if row[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}
