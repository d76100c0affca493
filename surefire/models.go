package surefire

import "encoding/xml"

// TestSuite is the root element of a Surefire/Failsafe report.
type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Time      string     `xml:"time,attr"`
	TestCases []TestCase `xml:"testcase"`
}

// TestCase ...
type TestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *Marker  `xml:"failure"`
	Error     *Marker  `xml:"error"`
	Skipped   *Marker  `xml:"skipped"`

	// Written by Surefire when rerunFailingTestsCount is set.
	FlakyFailures []Marker `xml:"flakyFailure"`
	FlakyErrors   []Marker `xml:"flakyError"`
	RerunFailures []Marker `xml:"rerunFailure"`
	RerunErrors   []Marker `xml:"rerunError"`
}

// Marker is a failure, error or skip element of a test case.
type Marker struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Value   string `xml:",chardata"`
}
