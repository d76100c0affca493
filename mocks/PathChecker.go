package mocks

import "github.com/stretchr/testify/mock"

// PathChecker stands in for pathutil.PathChecker in the locator and assembly tests.
type PathChecker struct {
	mock.Mock
}

func (_m *PathChecker) IsPathExists(pth string) (bool, error) {
	args := _m.Called(pth)
	return args.Bool(0), optionalError(args, 1)
}

func (_m *PathChecker) IsDirExists(pth string) (bool, error) {
	args := _m.Called(pth)
	return args.Bool(0), optionalError(args, 1)
}

// optionalError lets expectations omit a trailing nil error.
func optionalError(args mock.Arguments, index int) error {
	if len(args) > index {
		return args.Error(index)
	}
	return nil
}
