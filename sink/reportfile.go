package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
)

// ReportPathOutputKey holds the path of the merged report in the deploy directory.
const ReportPathOutputKey = "MAVEN_TEST_REPORT_PATH"

// ReportFileSink writes the merged report into the deploy directory and exports its path.
type ReportFileSink struct {
	deployDir   string
	encoder     ReportEncoder
	fileManager fileutil.FileManager
	exporter    OutputExporter
	logger      log.Logger
}

// NewReportFileSink ...
func NewReportFileSink(deployDir string, encoder ReportEncoder, fileManager fileutil.FileManager, exporter OutputExporter, logger log.Logger) ReportFileSink {
	return ReportFileSink{
		deployDir:   deployDir,
		encoder:     encoder,
		fileManager: fileManager,
		exporter:    exporter,
		logger:      logger,
	}
}

// Accept ...
func (s ReportFileSink) Accept(tree *resulttree.Tree) error {
	if s.deployDir == "" {
		s.logger.Debugf("No deploy directory set, skipping report export")
		return nil
	}

	if err := os.MkdirAll(s.deployDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory (%s): %w", s.deployDir, err)
	}

	data, err := s.encoder.Encode(tree)
	if err != nil {
		return err
	}

	name := ReplaceUnsupportedFilenameCharacters(tree.Node(tree.Root()).Name)
	pth := filepath.Join(s.deployDir, name+"-test-results.xml")
	if err := s.fileManager.WriteBytes(pth, data); err != nil {
		return fmt.Errorf("failed to write report (%s): %w", pth, err)
	}

	if err := s.exporter.ExportOutput(ReportPathOutputKey, pth); err != nil {
		return fmt.Errorf("failed to export %s: %w", ReportPathOutputKey, err)
	}
	s.logger.Printf("The %s output is exported: %s", ReportPathOutputKey, pth)

	return nil
}
