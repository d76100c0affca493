package assembly

import (
	"github.com/bitrise-steplib/steps-maven-test-results/locator"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
)

// ReportSource yields the report files to assemble.
type ReportSource interface {
	Reports() ([]locator.ReportFile, error)
}

// ResultSink accepts a finished result tree.
type ResultSink interface {
	Accept(tree *resulttree.Tree) error
}

// ReportParser turns one report file into a detached suite tree.
type ReportParser interface {
	Parse(pth string) (*resulttree.Tree, error)
}

// ReportLocator ...
type ReportLocator interface {
	Locate(baseDir string, labels []string) ([]locator.Location, error)
}

// DirectorySource lists the reports of labelled report directories under one output directory.
type DirectorySource struct {
	locator ReportLocator
	dir     string
	labels  []string
}

// NewDirectorySource ...
func NewDirectorySource(reportLocator ReportLocator, dir string, labels []string) DirectorySource {
	return DirectorySource{
		locator: reportLocator,
		dir:     dir,
		labels:  labels,
	}
}

// Reports returns the located files of every label, in label order.
func (s DirectorySource) Reports() ([]locator.ReportFile, error) {
	locations, err := s.locator.Locate(s.dir, s.labels)
	if err != nil {
		return nil, err
	}

	var files []locator.ReportFile
	for _, location := range locations {
		files = append(files, location.Files...)
	}
	return files, nil
}

// StaticSource serves a fixed list of report paths.
type StaticSource []string

// Reports ...
func (s StaticSource) Reports() ([]locator.ReportFile, error) {
	files := make([]locator.ReportFile, 0, len(s))
	for _, pth := range s {
		files = append(files, locator.ReportFile{Path: pth, CanonicalPath: pth, Status: locator.Located})
	}
	return files, nil
}
