package sink

import (
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
	"github.com/bitrise-steplib/steps-maven-test-results/summary"
)

// LogSink prints the suites of the tree and every case that did not pass.
type LogSink struct {
	logger log.Logger
}

// NewLogSink ...
func NewLogSink(logger log.Logger) LogSink {
	return LogSink{logger: logger}
}

// Accept ...
func (s LogSink) Accept(tree *resulttree.Tree) error {
	root := tree.Root()
	s.logger.Println()
	s.logger.Infof("Test results of %s:", tree.Node(root).Name)

	for _, id := range tree.Containers(root) {
		node := tree.Node(id)
		s.logger.Printf("- %s [%s]: %s", node.Name, tree.State(id), summary.Compute(tree, id))

		for _, child := range tree.Children(id) {
			c := tree.Node(child)
			if c.IsContainer() || c.State == resulttree.Passed {
				continue
			}
			if c.Message != "" {
				s.logger.Printf("  %s [%s]: %s", c.Name, c.State, c.Message)
			} else {
				s.logger.Printf("  %s [%s]", c.Name, c.State)
			}
		}
	}

	sum := summary.ForTree(tree)
	if sum.HasFailures() {
		s.logger.Warnf("%s", sum)
	} else {
		s.logger.Donef("%s", sum)
	}

	return nil
}
