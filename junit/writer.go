package junit

import (
	"encoding/xml"
	"fmt"

	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
	"github.com/bitrise-steplib/steps-maven-test-results/summary"
)

// Header is prepended to every rendered document.
const Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// FromTree converts tree into the JUnit model.
// Every container directly under the root becomes a suite holding all cases beneath it.
// Cases attached directly to the root are collected into one suite named after the root.
func FromTree(tree *resulttree.Tree) XML {
	root := tree.Root()
	rootNode := tree.Node(root)
	total := summary.ForTree(tree)

	doc := XML{
		Name:     rootNode.Name,
		Tests:    total.Total,
		Failures: total.Failed,
		Errors:   total.Errors,
		Skipped:  total.Skipped,
	}

	var looseCases []resulttree.NodeID
	for _, child := range tree.Children(root) {
		if !tree.Node(child).IsContainer() {
			looseCases = append(looseCases, child)
			continue
		}

		suite := convertSuite(tree, tree.Node(child).Name, summary.Compute(tree, child), tree.Leaves(child))
		doc.Time += suite.Time
		doc.TestSuites = append(doc.TestSuites, suite)
	}

	if len(looseCases) > 0 {
		var s summary.Summary
		for _, id := range looseCases {
			s = add(s, summary.Compute(tree, id))
		}
		suite := convertSuite(tree, rootNode.Name, s, looseCases)
		doc.Time += suite.Time
		doc.TestSuites = append(doc.TestSuites, suite)
	}

	return doc
}

// Marshal renders tree as an indented JUnit XML document.
func Marshal(tree *resulttree.Tree) ([]byte, error) {
	data, err := xml.MarshalIndent(FromTree(tree), "", " ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test results: %w", err)
	}
	return append([]byte(Header), data...), nil
}

func convertSuite(tree *resulttree.Tree, name string, s summary.Summary, cases []resulttree.NodeID) TestSuite {
	suite := TestSuite{
		Name:     name,
		Tests:    s.Total,
		Failures: s.Failed,
		Errors:   s.Errors,
		Skipped:  s.Skipped,
	}
	for _, id := range cases {
		testCase := convertCase(tree.Node(id))
		suite.Time += testCase.Time
		suite.TestCases = append(suite.TestCases, testCase)
	}
	return suite
}

func convertCase(node resulttree.Node) TestCase {
	testCase := TestCase{
		Name:      node.Name,
		ClassName: node.ClassName,
		Time:      node.Time,
	}

	switch node.State {
	case resulttree.Error:
		testCase.Error = &Error{Message: node.Message, Type: node.Type, Value: node.Details}
	case resulttree.Failed:
		testCase.Failure = &Failure{Message: node.Message, Type: node.Type, Value: node.Details}
	case resulttree.Skipped:
		testCase.Skipped = &Skipped{Message: node.Message}
	}

	return testCase
}

func add(a, b summary.Summary) summary.Summary {
	return summary.Summary{
		Total:   a.Total + b.Total,
		Errors:  a.Errors + b.Errors,
		Failed:  a.Failed + b.Failed,
		Skipped: a.Skipped + b.Skipped,
	}
}

// Encoder renders trees with Marshal.
type Encoder struct{}

// Encode ...
func (Encoder) Encode(tree *resulttree.Tree) ([]byte, error) {
	return Marshal(tree)
}
