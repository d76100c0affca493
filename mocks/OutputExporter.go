package mocks

import "github.com/stretchr/testify/mock"

// OutputExporter records the step outputs a sink exports.
type OutputExporter struct {
	mock.Mock
}

func (_m *OutputExporter) ExportOutput(key, value string) error {
	return optionalError(_m.Called(key, value), 0)
}
