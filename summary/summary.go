// Package summary computes test counts over a result tree.
package summary

import (
	"fmt"

	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
)

// Summary holds the counts of the cases beneath a node.
// Passed and not run cases only add to Total.
type Summary struct {
	Total   int `json:"total"`
	Errors  int `json:"errors"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Compute counts the case nodes at or beneath id. It does not modify the tree,
// so it is safe to call from several goroutines over the same finished tree.
func Compute(tree *resulttree.Tree, id resulttree.NodeID) Summary {
	var s Summary
	for _, leaf := range tree.Leaves(id) {
		s.Total++

		switch tree.Node(leaf).State {
		case resulttree.Error:
			s.Errors++
		case resulttree.Failed:
			s.Failed++
		case resulttree.Skipped:
			s.Skipped++
		}
	}
	return s
}

// ForTree computes the summary of the whole tree.
func ForTree(tree *resulttree.Tree) Summary {
	return Compute(tree, tree.Root())
}

// Passed returns the number of cases that neither failed, errored nor were skipped.
func (s Summary) Passed() int {
	return s.Total - s.Errors - s.Failed - s.Skipped
}

// HasFailures ...
func (s Summary) HasFailures() bool {
	return s.Errors > 0 || s.Failed > 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d tests, %d passed, %d failed, %d errors, %d skipped", s.Total, s.Passed(), s.Failed, s.Errors, s.Skipped)
}
