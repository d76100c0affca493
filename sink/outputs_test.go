package sink

import (
	"errors"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-maven-test-results/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOutputSink_Accept(t *testing.T) {
	exporter := new(mocks.OutputExporter)
	exporter.On("ExportOutput", TotalOutputKey, "4").Return(nil).Once()
	exporter.On("ExportOutput", FailedOutputKey, "1").Return(nil).Once()
	exporter.On("ExportOutput", ErrorsOutputKey, "1").Return(nil).Once()
	exporter.On("ExportOutput", SkippedOutputKey, "1").Return(nil).Once()
	exporter.On("ExportOutput", ResultOutputKey, ResultFailed).Return(nil).Once()

	err := NewOutputSink(exporter, log.NewLogger()).Accept(sampleTree())

	assert.NoError(t, err)
	exporter.AssertExpectations(t)
}

func TestOutputSink_AcceptPassing(t *testing.T) {
	exporter := new(mocks.OutputExporter)
	exporter.On("ExportOutput", mock.Anything, mock.Anything).Return(nil)

	err := NewOutputSink(exporter, log.NewLogger()).Accept(passingTree())

	assert.NoError(t, err)
	exporter.AssertCalled(t, "ExportOutput", TotalOutputKey, "1")
	exporter.AssertCalled(t, "ExportOutput", ResultOutputKey, ResultSucceeded)
}

func TestOutputSink_AcceptExportFails(t *testing.T) {
	exporter := new(mocks.OutputExporter)
	exporter.On("ExportOutput", TotalOutputKey, mock.Anything).Return(errors.New("envman failed"))

	err := NewOutputSink(exporter, log.NewLogger()).Accept(passingTree())

	assert.EqualError(t, err, "failed to export MAVEN_TEST_TOTAL: envman failed")
	exporter.AssertNumberOfCalls(t, "ExportOutput", 1)
}
