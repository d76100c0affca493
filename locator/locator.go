// Package locator finds Maven suite reports (TEST-*.xml) in report directories.
package locator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/pathutil"
	logV2 "github.com/bitrise-io/go-utils/v2/log"
	pathutilV2 "github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/docker/go-units"
)

const (
	reportFilePrefix = "TEST-"
	reportFileSuffix = ".xml"
)

// IsReportFileName reports whether name looks like a suite report.
func IsReportFileName(name string) bool {
	return strings.HasPrefix(name, reportFilePrefix) && strings.HasSuffix(name, reportFileSuffix) &&
		len(name) >= len(reportFilePrefix)+len(reportFileSuffix)
}

// Locator ...
type Locator struct {
	pathChecker pathutilV2.PathChecker
	logger      logV2.Logger
}

// NewLocator ...
func NewLocator(pathChecker pathutilV2.PathChecker, logger logV2.Logger) Locator {
	return Locator{
		pathChecker: pathChecker,
		logger:      logger,
	}
}

/*
Locate lists the suite reports of every labelled report directory under baseDir.

	target (baseDir)
	├── surefire-reports
	│	├── TEST-org.example.FirstTest.xml
	│	├── TEST-org.example.SecondTest.xml
	│	└── org.example.FirstTest.txt
	└── failsafe-reports
		└── TEST-org.example.FirstIT.xml

Missing report directories are skipped, subdirectories are not searched.
Files are sorted by path within a label, labels keep their given order.
*/
func (l Locator) Locate(baseDir string, labels []string) ([]Location, error) {
	var locations []Location
	seen := map[string]bool{}

	for _, label := range labels {
		if seen[label] {
			continue
		}
		seen[label] = true

		dir := filepath.Join(baseDir, label)
		exists, err := l.pathChecker.IsDirExists(dir)
		if err != nil {
			l.logger.Warnf("Failed to check report directory (%s): %s", dir, err)
			continue
		}
		if !exists {
			l.logger.Debugf("Report directory does not exist: %s", dir)
			continue
		}

		files, err := l.locateInDir(label, dir)
		if err != nil {
			return nil, err
		}

		l.logger.Debugf("Found %d report(s) in %s", len(files), dir)
		locations = append(locations, Location{
			Label: label,
			Dir:   dir,
			Files: files,
		})
	}

	return locations, nil
}

func (l Locator) locateInDir(label, dir string) ([]ReportFile, error) {
	pths, err := filepath.Glob(filepath.Join(pathutil.EscapeGlobPath(dir), reportFilePrefix+"*"+reportFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in %s: %w", dir, err)
	}
	sort.Strings(pths)

	var files []ReportFile
	for _, pth := range pths {
		if !IsReportFileName(filepath.Base(pth)) {
			continue
		}

		info, err := os.Stat(pth)
		if err != nil {
			l.logger.Debugf("Skipping %s: %s", pth, err)
			continue
		}
		if !info.Mode().IsRegular() {
			l.logger.Debugf("Skipping %s: not a regular file", pth)
			continue
		}

		canonicalPath, err := filepath.EvalSymlinks(pth)
		if err != nil {
			l.logger.Debugf("Skipping %s: failed to resolve canonical path: %s", pth, err)
			continue
		}
		if canonicalPath, err = filepath.Abs(canonicalPath); err != nil {
			l.logger.Debugf("Skipping %s: failed to resolve canonical path: %s", pth, err)
			continue
		}

		l.logger.Debugf("- %s (%s)", filepath.Base(pth), units.HumanSize(float64(info.Size())))
		files = append(files, ReportFile{
			Label:         label,
			Path:          pth,
			CanonicalPath: canonicalPath,
			Size:          info.Size(),
			Exists:        true,
			Status:        Located,
		})
	}

	return files, nil
}
