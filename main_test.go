package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-maven-test-results/assembly"
	"github.com/bitrise-steplib/steps-maven-test-results/locator"
	"github.com/bitrise-steplib/steps-maven-test-results/mocks"
	"github.com/bitrise-steplib/steps-maven-test-results/surefire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envs map[string]string

func (e envs) List() []string {
	var list []string
	for key, value := range e {
		list = append(list, key+"="+value)
	}
	return list
}

func (e envs) Unset(key string) error {
	delete(e, key)
	return nil
}

func (e envs) Get(key string) string {
	return e[key]
}

func (e envs) Set(key, value string) error {
	e[key] = value
	return nil
}

func Test_splitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "blank lines", input: "\n \n", want: nil},
		{name: "defaults", input: "surefire-reports\nfailsafe-reports", want: []string{"surefire-reports", "failsafe-reports"}},
		{name: "trims lines", input: " surefire-reports \r\n\nit-reports\n", want: []string{"surefire-reports", "it-reports"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines(tt.input))
		})
	}
}

func Test_projectName(t *testing.T) {
	projectDir := filepath.Join(string(filepath.Separator), "bitrise", "src", "calculator")

	tests := []struct {
		name       string
		inputName  string
		absPath    string
		absPathErr error
		want       string
	}{
		{name: "input name", inputName: "org.example:calculator", want: "org.example:calculator"},
		{name: "directory name", inputName: " ", absPath: projectDir, want: "calculator"},
		{name: "unresolvable directory", absPathErr: errors.New("unknown user"), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pathModifier := new(mocks.PathModifier)
			pathModifier.On("AbsPath", "./calculator").Return(tt.absPath, tt.absPathErr).Maybe()

			assert.Equal(t, tt.want, projectName(tt.inputName, "./calculator", pathModifier))
			pathModifier.AssertExpectations(t)
		})
	}
}

func TestInputs_Parse(t *testing.T) {
	tests := []struct {
		name    string
		envs    envs
		want    Inputs
		wantErr bool
	}{
		{
			name: "only project dir",
			envs: envs{"project_dir": "./calculator"},
			want: Inputs{ProjectDir: "./calculator"},
		},
		{
			name: "yes and no flags",
			envs: envs{"project_dir": "./calculator", "output_dir": "build", "fail_on_test_failure": "yes", "verbose": "no"},
			want: Inputs{ProjectDir: "./calculator", OutputDir: "build", FailOnTestFailure: true},
		},
		{
			name:    "missing project dir",
			envs:    envs{"output_dir": "target"},
			wantErr: true,
		},
		{
			name:    "invalid flag",
			envs:    envs{"project_dir": "./calculator", "verbose": "maybe"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inputs Inputs
			err := stepconf.NewInputParser(tt.envs).Parse(&inputs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, inputs)
		})
	}
}

func Test_newProject_DefaultDirectories(t *testing.T) {
	projectDir := t.TempDir()
	reportDir := filepath.Join(projectDir, assembly.DefaultOutputDir, locator.SurefireReportsDir)
	require.NoError(t, os.MkdirAll(reportDir, 0755))
	content := `<testsuite name="org.example.CalculatorTest"><testcase name="adds" classname="org.example.CalculatorTest"/></testsuite>`
	require.NoError(t, fileutil.NewFileManager().Write(filepath.Join(reportDir, "TEST-org.example.CalculatorTest.xml"), content, 0644))

	var inputs Inputs
	require.NoError(t, stepconf.NewInputParser(envs{"project_dir": projectDir}).Parse(&inputs))

	project := newProject(inputs, pathutil.NewPathModifier())
	assert.Equal(t, filepath.Base(projectDir), project.Name)
	assert.Empty(t, project.OutputDir)
	assert.Empty(t, project.ReportDirs)

	logger := log.NewLogger()
	assembler := assembly.NewAssembler(
		locator.NewLocator(pathutil.NewPathChecker(), logger),
		surefire.NewParser(fileutil.NewFileManager(), logger),
		pathutil.NewPathModifier(),
		pathutil.NewPathChecker(),
		logger,
		1,
	)
	result, err := assembler.Assemble(project)
	require.NoError(t, err)
	require.Len(t, result.Reports, 1)
	assert.Equal(t, locator.SurefireReportsDir, result.Reports[0].Label)
	assert.Equal(t, locator.Parsed, result.Reports[0].Status)
}
