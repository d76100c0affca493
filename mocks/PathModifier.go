package mocks

import "github.com/stretchr/testify/mock"

// PathModifier stands in for pathutil.PathModifier when resolving project directories.
type PathModifier struct {
	mock.Mock
}

func (_m *PathModifier) AbsPath(pth string) (string, error) {
	args := _m.Called(pth)
	return args.String(0), optionalError(args, 1)
}

func (_m *PathModifier) EscapeGlobPath(pth string) string {
	return _m.Called(pth).String(0)
}
