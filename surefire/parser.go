// Package surefire parses the TEST-*.xml suite reports written by the Maven Surefire and Failsafe plugins.
package surefire

import (
	"bytes"
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
	"github.com/pkg/errors"
)

// Parser ...
type Parser struct {
	fileManager fileutil.FileManager
	logger      log.Logger
}

// NewParser ...
func NewParser(fileManager fileutil.FileManager, logger log.Logger) Parser {
	return Parser{
		fileManager: fileManager,
		logger:      logger,
	}
}

// Parse reads the report at pth and returns a detached tree rooted at the report's suite.
// It returns an *IOError if the file cannot be read and a *ParseError if its content is invalid.
func (p Parser) Parse(pth string) (*resulttree.Tree, error) {
	file, err := p.fileManager.Open(pth)
	if err != nil {
		return nil, &IOError{Path: pth, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.Warnf("Failed to close report (%s): %s", pth, err)
		}
	}()

	return p.ParseReader(pth, file)
}

// ParseReader parses a report read from r; pth is only used for naming the source.
func (p Parser) ParseReader(pth string, r io.Reader) (*resulttree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Path: pth, Err: err}
	}

	suite, err := decodeSuite(data)
	if err != nil {
		return nil, &ParseError{Path: pth, Err: errors.Wrap(err, "invalid testsuite document")}
	}

	if strings.TrimSpace(suite.Name) == "" {
		return nil, &ParseError{Path: pth, Err: errors.New("testsuite has no name attribute")}
	}

	tree := resulttree.NewSuite(suite.Name, pth)
	for i, testCase := range suite.TestCases {
		if strings.TrimSpace(testCase.Name) == "" {
			return nil, &ParseError{Path: pth, Err: errors.Errorf("testcase #%d has no name attribute", i+1)}
		}

		tree.AddCase(tree.Root(), convertTestCase(testCase))
	}

	p.logger.Debugf("Parsed %s: %d test case(s)", suite.Name, len(suite.TestCases))

	return tree, nil
}

// decodeSuite decodes the single testsuite root of a well-formed document.
// Only whitespace, comments and processing instructions may surround the root.
func decodeSuite(data []byte) (TestSuite, error) {
	var suite TestSuite
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var root *xml.StartElement
	for root == nil {
		token, err := decoder.Token()
		if err == io.EOF {
			return suite, errors.New("document has no root element")
		}
		if err != nil {
			return suite, err
		}

		if start, ok := token.(xml.StartElement); ok {
			root = &start
			continue
		}
		if err := checkMisc(token, true); err != nil {
			return suite, err
		}
	}

	if err := decoder.DecodeElement(&suite, root); err != nil {
		return suite, err
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return suite, nil
		}
		if err != nil {
			return suite, errors.Wrap(err, "after the root element")
		}
		if err := checkMisc(token, false); err != nil {
			return suite, err
		}
	}
}

func checkMisc(token xml.Token, prolog bool) error {
	switch t := token.(type) {
	case xml.CharData:
		if len(bytes.TrimSpace(t)) > 0 {
			return errors.Errorf("unexpected text outside the root element: %q", bytes.TrimSpace(t))
		}
	case xml.Comment, xml.ProcInst:
	case xml.Directive:
		if !prolog {
			return errors.New("unexpected directive after the root element")
		}
	case xml.StartElement:
		return errors.Errorf("unexpected element <%s> after the root element", t.Name.Local)
	default:
		return errors.Errorf("unexpected %T outside the root element", token)
	}
	return nil
}

func convertTestCase(testCase TestCase) resulttree.Case {
	c := resulttree.Case{
		Name:      testCase.Name,
		ClassName: testCase.ClassName,
		State:     resulttree.Passed,
		Time:      parseSeconds(testCase.Time),
	}

	var marker *Marker
	switch {
	case testCase.Error != nil:
		c.State, marker = resulttree.Error, testCase.Error
	case testCase.Failure != nil:
		c.State, marker = resulttree.Failed, testCase.Failure
	case testCase.Skipped != nil:
		c.State, marker = resulttree.Skipped, testCase.Skipped
	case len(testCase.FlakyFailures) > 0:
		marker = &testCase.FlakyFailures[0]
	case len(testCase.FlakyErrors) > 0:
		marker = &testCase.FlakyErrors[0]
	}

	if marker != nil {
		c.Message = marker.Message
		c.Type = marker.Type
		c.Details = strings.TrimSpace(marker.Value)
	}

	return c
}

// parseSeconds reads a Surefire time attribute, which may contain grouping separators (1,234.5).
func parseSeconds(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}

	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return seconds
}
