// Package assembly builds one result tree from the Surefire and Failsafe reports of a Maven project.
package assembly

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-maven-test-results/locator"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
	"golang.org/x/sync/errgroup"
)

// DefaultOutputDir is Maven's build output directory.
const DefaultOutputDir = "target"

// ErrProjectUnresolved is returned when the project itself cannot be resolved.
var ErrProjectUnresolved = errors.New("project cannot be resolved")

// Project identifies the Maven project whose reports are assembled.
type Project struct {
	Name       string
	BaseDir    string
	OutputDir  string
	ReportDirs []string
}

func (p Project) outputDir() string {
	if p.OutputDir == "" {
		return DefaultOutputDir
	}
	return p.OutputDir
}

func (p Project) reportDirs() []string {
	if len(p.ReportDirs) == 0 {
		return locator.DefaultReportDirs
	}
	return p.ReportDirs
}

// Result is a finished tree and the outcome of every report considered while building it.
type Result struct {
	Tree    *resulttree.Tree
	Reports []locator.ReportFile
}

// Failed returns the reports that were skipped because they could not be read or parsed.
func (r Result) Failed() []locator.ReportFile {
	var failed []locator.ReportFile
	for _, report := range r.Reports {
		if report.Status == locator.Failed {
			failed = append(failed, report)
		}
	}
	return failed
}

// Assembler ...
type Assembler struct {
	locator      ReportLocator
	parser       ReportParser
	pathModifier pathutil.PathModifier
	pathChecker  pathutil.PathChecker
	logger       log.Logger
	concurrency  int
}

// NewAssembler returns an Assembler parsing up to concurrency reports at a time.
func NewAssembler(reportLocator ReportLocator, parser ReportParser, pathModifier pathutil.PathModifier, pathChecker pathutil.PathChecker, logger log.Logger, concurrency int) Assembler {
	return Assembler{
		locator:      reportLocator,
		parser:       parser,
		pathModifier: pathModifier,
		pathChecker:  pathChecker,
		logger:       logger,
		concurrency:  concurrency,
	}
}

// Assemble builds the result tree of project. It only fails if the project cannot be resolved:
// a missing output or report directory yields an empty tree and broken reports are logged and skipped.
func (a Assembler) Assemble(project Project) (Result, error) {
	baseDir, err := a.resolve(project)
	if err != nil {
		return Result{}, err
	}

	outputDir := filepath.Join(baseDir, project.outputDir())
	exists, err := a.pathChecker.IsDirExists(outputDir)
	if err != nil {
		a.logger.Warnf("Failed to check output directory (%s): %s", outputDir, err)
	}
	if !exists {
		a.logger.Debugf("Output directory does not exist: %s", outputDir)
		return Result{Tree: resulttree.New(project.Name)}, nil
	}

	return a.AssembleFrom(project.Name, NewDirectorySource(a.locator, outputDir, project.reportDirs()))
}

// AssembleFrom builds a tree named name from the reports of source.
func (a Assembler) AssembleFrom(name string, source ReportSource) (Result, error) {
	root := resulttree.New(name)

	reports, err := source.Reports()
	if err != nil {
		a.logger.Warnf("Failed to list reports: %s", err)
		return Result{Tree: root}, nil
	}

	suites := a.parseAll(reports)

	for i, suite := range suites {
		if reports[i].Status == locator.Failed {
			a.logger.Errorf("Skipping report %s: %s", reports[i].Path, reports[i].Err)
			continue
		}
		root.Attach(root.Root(), suite)
	}

	return Result{Tree: root, Reports: reports}, nil
}

// parseAll parses every report on a bounded pool and records each outcome on the report.
// The returned trees are index aligned with reports.
func (a Assembler) parseAll(reports []locator.ReportFile) []*resulttree.Tree {
	suites := make([]*resulttree.Tree, len(reports))

	g := new(errgroup.Group)
	g.SetLimit(max(a.concurrency, 1))
	for i := range reports {
		g.Go(func() error {
			suite, err := a.parser.Parse(reports[i].Path)
			if err != nil {
				reports[i].Status, reports[i].Err = locator.Failed, err
				return nil
			}

			suites[i] = suite
			reports[i].Status = locator.Parsed
			return nil
		})
	}
	_ = g.Wait()

	return suites
}

func (a Assembler) resolve(project Project) (string, error) {
	if strings.TrimSpace(project.Name) == "" {
		return "", fmt.Errorf("%w: empty project name", ErrProjectUnresolved)
	}

	baseDir, err := a.pathModifier.AbsPath(project.BaseDir)
	if err != nil {
		return "", fmt.Errorf("%w: failed to expand base directory (%s): %s", ErrProjectUnresolved, project.BaseDir, err)
	}

	exists, err := a.pathChecker.IsDirExists(baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: failed to check base directory (%s): %s", ErrProjectUnresolved, baseDir, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: base directory does not exist: %s", ErrProjectUnresolved, baseDir)
	}

	return baseDir, nil
}
