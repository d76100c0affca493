// Package sink delivers a finished result tree to the consumers of the step.
package sink

import (
	"errors"

	"github.com/bitrise-steplib/steps-maven-test-results/assembly"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
)

// ReportEncoder renders a result tree as a report document.
type ReportEncoder interface {
	Encode(tree *resulttree.Tree) ([]byte, error)
}

// Multi hands the tree to every sink, even if an earlier one fails.
type Multi []assembly.ResultSink

// Accept returns the joined errors of the failed sinks.
func (m Multi) Accept(tree *resulttree.Tree) error {
	var errs []error
	for _, s := range m {
		if err := s.Accept(tree); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
