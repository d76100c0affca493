package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
)

const (
	// ResultFileName is the merged JUnit report written into the test run directory.
	ResultFileName = "maven_test_results.xml"
	// TestInfoFileName names the test run.
	TestInfoFileName = "test-info.json"
	// StepInfoFileName describes the step producing the test runs.
	StepInfoFileName = "step-info.json"
)

type testInfo struct {
	Name string `json:"test-name"`
}

// TestResultDirSink exports the tree into the test result directory layout:
//
//	<dir>
//	├── step-info.json
//	└── <test name>
//		├── maven_test_results.xml
//		└── test-info.json
type TestResultDirSink struct {
	dir         string
	testName    string
	stepInfo    models.TestResultStepInfo
	encoder     ReportEncoder
	fileManager fileutil.FileManager
	logger      log.Logger
}

// NewTestResultDirSink ...
func NewTestResultDirSink(dir, testName string, stepInfo models.TestResultStepInfo, encoder ReportEncoder, fileManager fileutil.FileManager, logger log.Logger) TestResultDirSink {
	return TestResultDirSink{
		dir:         dir,
		testName:    testName,
		stepInfo:    stepInfo,
		encoder:     encoder,
		fileManager: fileManager,
		logger:      logger,
	}
}

// Accept writes the merged report of tree. It does nothing without a test result directory.
func (s TestResultDirSink) Accept(tree *resulttree.Tree) error {
	if s.dir == "" {
		s.logger.Debugf("No test result directory set, skipping test result export")
		return nil
	}

	name := s.testName
	if name == "" {
		name = tree.Node(tree.Root()).Name
	}
	name = ReplaceUnsupportedFilenameCharacters(name)

	testDir := filepath.Join(s.dir, name)
	if err := os.MkdirAll(testDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory (%s): %w", testDir, err)
	}

	data, err := s.encoder.Encode(tree)
	if err != nil {
		return err
	}
	if err := s.fileManager.WriteBytes(filepath.Join(testDir, ResultFileName), data); err != nil {
		return fmt.Errorf("failed to write test results: %w", err)
	}

	if err := s.writeJSON(filepath.Join(testDir, TestInfoFileName), testInfo{Name: name}); err != nil {
		return err
	}

	if s.stepInfo.ID != "" {
		if err := s.writeJSON(filepath.Join(s.dir, StepInfoFileName), s.stepInfo); err != nil {
			return err
		}
	}

	s.logger.Donef("Test results exported to %s", testDir)

	return nil
}

func (s TestResultDirSink) writeJSON(pth string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", filepath.Base(pth), err)
	}
	if err := s.fileManager.WriteBytes(pth, data); err != nil {
		return fmt.Errorf("failed to write file (%s): %w", pth, err)
	}
	return nil
}

// ReplaceUnsupportedFilenameCharacters replaces path separators and colons,
// Maven project names look like groupId:artifactId.
func ReplaceUnsupportedFilenameCharacters(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
