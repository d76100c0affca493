package sink

import (
	"fmt"
	"strconv"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
	"github.com/bitrise-steplib/steps-maven-test-results/summary"
)

// Step outputs
const (
	TotalOutputKey   = "MAVEN_TEST_TOTAL"
	FailedOutputKey  = "MAVEN_TEST_FAILED"
	ErrorsOutputKey  = "MAVEN_TEST_ERRORS"
	SkippedOutputKey = "MAVEN_TEST_SKIPPED"
	ResultOutputKey  = "MAVEN_TEST_RESULT"
)

// Values of ResultOutputKey
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
)

// OutputExporter ...
type OutputExporter interface {
	ExportOutput(key, value string) error
}

// OutputSink exports the summary of the tree as step outputs.
type OutputSink struct {
	exporter OutputExporter
	logger   log.Logger
}

// NewOutputSink ...
func NewOutputSink(exporter OutputExporter, logger log.Logger) OutputSink {
	return OutputSink{
		exporter: exporter,
		logger:   logger,
	}
}

// Accept ...
func (s OutputSink) Accept(tree *resulttree.Tree) error {
	sum := summary.ForTree(tree)

	result := ResultSucceeded
	if sum.HasFailures() {
		result = ResultFailed
	}

	outputs := []struct {
		key   string
		value string
	}{
		{TotalOutputKey, strconv.Itoa(sum.Total)},
		{FailedOutputKey, strconv.Itoa(sum.Failed)},
		{ErrorsOutputKey, strconv.Itoa(sum.Errors)},
		{SkippedOutputKey, strconv.Itoa(sum.Skipped)},
		{ResultOutputKey, result},
	}
	for _, output := range outputs {
		if err := s.exporter.ExportOutput(output.key, output.value); err != nil {
			return fmt.Errorf("failed to export %s: %w", output.key, err)
		}
		s.logger.Printf("The %s output is exported: %s", output.key, output.value)
	}

	return nil
}
