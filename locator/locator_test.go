package locator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-maven-test-results/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, dir string, names ...string) {
	fileManager := fileutil.NewFileManager()
	for _, name := range names {
		pth := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0755))
		require.NoError(t, fileManager.Write(pth, "<testsuite/>", 0644))
	}
}

func filePaths(files []ReportFile) []string {
	var pths []string
	for _, file := range files {
		pths = append(pths, file.Path)
	}
	return pths
}

func TestIsReportFileName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "TEST-org.example.AppTest.xml", want: true},
		{name: "TEST-.xml", want: true},
		{name: "org.example.AppTest.txt", want: false},
		{name: "TEST-org.example.AppTest.txt", want: false},
		{name: "test-org.example.AppTest.xml", want: false},
		{name: "TEST-org.example.AppTest-output.txt", want: false},
		{name: "TEST.xml", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReportFileName(tt.name))
		})
	}
}

func TestLocate(t *testing.T) {
	targetDir := t.TempDir()
	createFiles(t, targetDir,
		"surefire-reports/TEST-org.example.B.xml",
		"surefire-reports/TEST-org.example.A.xml",
		"surefire-reports/org.example.A.txt",
		"surefire-reports/org.example.A-output.txt",
		"surefire-reports/nested/TEST-org.example.Nested.xml",
		"failsafe-reports/TEST-org.example.AppIT.xml",
		"failsafe-reports/failsafe-summary.xml",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(targetDir, "surefire-reports", "TEST-directory.xml"), 0755))

	locator := NewLocator(pathutil.NewPathChecker(), log.NewLogger())

	locations, err := locator.Locate(targetDir, DefaultReportDirs)
	require.NoError(t, err)
	require.Len(t, locations, 2)

	assert.Equal(t, SurefireReportsDir, locations[0].Label)
	assert.Equal(t, filepath.Join(targetDir, SurefireReportsDir), locations[0].Dir)
	assert.Equal(t, []string{
		filepath.Join(targetDir, "surefire-reports", "TEST-org.example.A.xml"),
		filepath.Join(targetDir, "surefire-reports", "TEST-org.example.B.xml"),
	}, filePaths(locations[0].Files))

	assert.Equal(t, FailsafeReportsDir, locations[1].Label)
	assert.Equal(t, []string{
		filepath.Join(targetDir, "failsafe-reports", "TEST-org.example.AppIT.xml"),
	}, filePaths(locations[1].Files))

	file := locations[1].Files[0]
	assert.Equal(t, FailsafeReportsDir, file.Label)
	assert.True(t, file.Exists)
	assert.Equal(t, Located, file.Status)
	assert.Equal(t, int64(len("<testsuite/>")), file.Size)
	assert.NoError(t, file.Err)
	assert.True(t, filepath.IsAbs(file.CanonicalPath))
	assert.Equal(t, "TEST-org.example.AppIT.xml", filepath.Base(file.CanonicalPath))
}

func TestLocate_MissingReportDirIsSkipped(t *testing.T) {
	targetDir := t.TempDir()
	createFiles(t, targetDir, "surefire-reports/TEST-org.example.A.xml")

	locations, err := NewLocator(pathutil.NewPathChecker(), log.NewLogger()).Locate(targetDir, DefaultReportDirs)

	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, SurefireReportsDir, locations[0].Label)
}

func TestLocate_NoReportDirs(t *testing.T) {
	locations, err := NewLocator(pathutil.NewPathChecker(), log.NewLogger()).Locate(t.TempDir(), DefaultReportDirs)

	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestLocate_EmptyReportDir(t *testing.T) {
	targetDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(targetDir, SurefireReportsDir), 0755))

	locations, err := NewLocator(pathutil.NewPathChecker(), log.NewLogger()).Locate(targetDir, DefaultReportDirs)

	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Empty(t, locations[0].Files)
}

func TestLocate_DuplicateLabelsAreLocatedOnce(t *testing.T) {
	targetDir := t.TempDir()
	createFiles(t, targetDir, "surefire-reports/TEST-org.example.A.xml")

	locations, err := NewLocator(pathutil.NewPathChecker(), log.NewLogger()).Locate(targetDir, []string{SurefireReportsDir, SurefireReportsDir})

	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Len(t, locations[0].Files, 1)
}

func TestLocate_SymlinkedReportResolvesCanonicalPath(t *testing.T) {
	targetDir := t.TempDir()
	realDir := t.TempDir()
	createFiles(t, realDir, "TEST-org.example.Real.xml")
	require.NoError(t, os.MkdirAll(filepath.Join(targetDir, SurefireReportsDir), 0755))
	link := filepath.Join(targetDir, SurefireReportsDir, "TEST-org.example.Link.xml")
	require.NoError(t, os.Symlink(filepath.Join(realDir, "TEST-org.example.Real.xml"), link))
	dangling := filepath.Join(targetDir, SurefireReportsDir, "TEST-org.example.Dangling.xml")
	require.NoError(t, os.Symlink(filepath.Join(realDir, "missing.xml"), dangling))

	locations, err := NewLocator(pathutil.NewPathChecker(), log.NewLogger()).Locate(targetDir, []string{SurefireReportsDir})

	require.NoError(t, err)
	require.Len(t, locations, 1)
	require.Len(t, locations[0].Files, 1)
	assert.Equal(t, link, locations[0].Files[0].Path)
	wantCanonical, err := filepath.EvalSymlinks(filepath.Join(realDir, "TEST-org.example.Real.xml"))
	require.NoError(t, err)
	assert.Equal(t, wantCanonical, locations[0].Files[0].CanonicalPath)
}

func TestLocate_DirCheckFailureSkipsLabel(t *testing.T) {
	targetDir := t.TempDir()
	createFiles(t, targetDir, "failsafe-reports/TEST-org.example.AppIT.xml")

	checker := new(mocks.PathChecker)
	checker.On("IsDirExists", filepath.Join(targetDir, SurefireReportsDir)).Return(false, errors.New("permission denied"))
	checker.On("IsDirExists", mock.Anything).Return(true, nil)

	locations, err := NewLocator(checker, log.NewLogger()).Locate(targetDir, DefaultReportDirs)

	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, FailsafeReportsDir, locations[0].Label)
	checker.AssertNumberOfCalls(t, "IsDirExists", 2)
}
