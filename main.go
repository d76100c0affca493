package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/pretty"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-maven-test-results/assembly"
	"github.com/bitrise-steplib/steps-maven-test-results/junit"
	"github.com/bitrise-steplib/steps-maven-test-results/locator"
	"github.com/bitrise-steplib/steps-maven-test-results/redact"
	"github.com/bitrise-steplib/steps-maven-test-results/sink"
	"github.com/bitrise-steplib/steps-maven-test-results/summary"
	"github.com/bitrise-steplib/steps-maven-test-results/surefire"
)

const (
	stepID      = "maven-test-results"
	stepTitle   = "Maven Test Results"
	stepVersion = "1.0.0"
)

// Inputs ...
type Inputs struct {
	ProjectDir       string `env:"project_dir,required"`
	ProjectName      string `env:"project_name"`
	OutputDir        string `env:"output_dir"`
	ReportDirs       string `env:"report_dirs"`
	ParseConcurrency int    `env:"parse_concurrency"`

	TestResultDir string `env:"BITRISE_TEST_RESULT_DIR"`
	TestName      string `env:"test_name"`
	DeployDir     string `env:"deploy_dir"`
	RedactEnvKeys string `env:"redact_env_keys"`

	AddonAPIBaseURL string          `env:"addon_api_base_url"`
	AddonAPIToken   stepconf.Secret `env:"addon_api_token"`
	AppSlug         string          `env:"BITRISE_APP_SLUG"`
	BuildSlug       string          `env:"BITRISE_BUILD_SLUG"`

	FailOnTestFailure bool `env:"fail_on_test_failure"`
	Verbose           bool `env:"verbose"`
}

// newProject leaves unset directories empty so the assembler applies Maven's defaults.
func newProject(inputs Inputs, pathModifier pathutil.PathModifier) assembly.Project {
	return assembly.Project{
		Name:       projectName(inputs.ProjectName, inputs.ProjectDir, pathModifier),
		BaseDir:    inputs.ProjectDir,
		OutputDir:  inputs.OutputDir,
		ReportDirs: splitLines(inputs.ReportDirs),
	}
}

func fail(logger log.Logger, format string, v ...interface{}) {
	logger.Errorf(format, v...)
	os.Exit(1)
}

func main() {
	logger := log.NewLogger()
	envRepository := env.NewRepository()

	var inputs Inputs
	if err := stepconf.NewInputParser(envRepository).Parse(&inputs); err != nil {
		fail(logger, "Issue with input: %s", err)
	}
	stepconf.Print(inputs)
	logger.Println()
	logger.EnableDebugLog(inputs.Verbose)

	fileManager := fileutil.NewFileManager()
	pathChecker := pathutil.NewPathChecker()
	pathModifier := pathutil.NewPathModifier()

	project := newProject(inputs, pathModifier)
	assembler := assembly.NewAssembler(
		locator.NewLocator(pathChecker, logger),
		surefire.NewParser(fileManager, logger),
		pathModifier,
		pathChecker,
		logger,
		inputs.ParseConcurrency,
	)

	logger.Infof("Assembling test results of %s", project.Name)

	result, err := assembler.Assemble(project)
	if err != nil {
		fail(logger, "Failed to assemble test results: %s", err)
	}
	logger.Debugf("Reports: %s", pretty.Object(result.Reports))
	if failed := result.Failed(); len(failed) > 0 {
		logger.Warnf("%d of %d report(s) could not be parsed", len(failed), len(result.Reports))
	}

	stepInfo := models.TestResultStepInfo{ID: stepID, Title: stepTitle, Version: stepVersion}
	encoder := redact.NewEncoder(junit.Encoder{}, redact.Secrets(envRepository, splitLines(inputs.RedactEnvKeys)), logger)
	exporter := export.NewExporter(command.NewFactory(envRepository), export.NewFileManager())
	sinks := sink.Multi{
		sink.NewLogSink(logger),
		sink.NewOutputSink(&exporter, logger),
		sink.NewReportFileSink(inputs.DeployDir, encoder, fileManager, &exporter, logger),
		sink.NewTestResultDirSink(inputs.TestResultDir, inputs.TestName, stepInfo, encoder, fileManager, logger),
		sink.NewUploadSink(sink.UploadConfig{
			BaseURL:   inputs.AddonAPIBaseURL,
			Token:     string(inputs.AddonAPIToken),
			AppSlug:   inputs.AppSlug,
			BuildSlug: inputs.BuildSlug,
			TestName:  inputs.TestName,
			StepInfo:  stepInfo,
		}, encoder, logger),
	}

	logger.Println()
	logger.Infof("Exporting test results")
	if err := sinks.Accept(result.Tree); err != nil {
		logger.Warnf("Failed to export test results: %s", err)
	}

	s := summary.ForTree(result.Tree)
	if inputs.FailOnTestFailure && s.HasFailures() {
		fail(logger, "Tests failed: %s", s)
	}
}

// splitLines splits a newline separated list input, dropping blank lines.
func splitLines(input string) []string {
	var dirs []string
	for _, line := range strings.Split(input, "\n") {
		if dir := strings.TrimSpace(line); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// projectName falls back to the name of the project directory.
func projectName(name, projectDir string, pathModifier pathutil.PathModifier) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}

	absProjectDir, err := pathModifier.AbsPath(projectDir)
	if err != nil {
		return ""
	}
	return filepath.Base(absProjectDir)
}
