// Mocks for the interfaces in collaborators.go. Kept in sync by hand with the
// go:generate directive there.

package bot_test

import (
	context "context"
	reflect "reflect"

	nutrition "github.com/2beens/nutribot/internal/nutrition"
	progress "github.com/2beens/nutribot/internal/progress"
	tracker "github.com/2beens/nutribot/internal/tracker"
	gomock "go.uber.org/mock/gomock"
)

// MocknutritionProvider is a mock of nutritionProvider interface.
type MocknutritionProvider struct {
	ctrl     *gomock.Controller
	recorder *MocknutritionProviderMockRecorder
	isgomock struct{}
}

// MocknutritionProviderMockRecorder is the mock recorder for MocknutritionProvider.
type MocknutritionProviderMockRecorder struct {
	mock *MocknutritionProvider
}

// NewMocknutritionProvider creates a new mock instance.
func NewMocknutritionProvider(ctrl *gomock.Controller) *MocknutritionProvider {
	mock := &MocknutritionProvider{ctrl: ctrl}
	mock.recorder = &MocknutritionProviderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MocknutritionProvider) EXPECT() *MocknutritionProviderMockRecorder {
	return m.recorder
}

// Lookup mocks base method.
func (m *MocknutritionProvider) Lookup(ctx context.Context, food string) (*nutrition.Facts, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Lookup", ctx, food)
	ret0, _ := ret[0].(*nutrition.Facts)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Lookup indicates an expected call of Lookup.
func (mr *MocknutritionProviderMockRecorder) Lookup(ctx, food any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Lookup", reflect.TypeOf((*MocknutritionProvider)(nil).Lookup), ctx, food)
}

// MockprogressReporter is a mock of progressReporter interface.
type MockprogressReporter struct {
	ctrl     *gomock.Controller
	recorder *MockprogressReporterMockRecorder
	isgomock struct{}
}

// MockprogressReporterMockRecorder is the mock recorder for MockprogressReporter.
type MockprogressReporterMockRecorder struct {
	mock *MockprogressReporter
}

// NewMockprogressReporter creates a new mock instance.
func NewMockprogressReporter(ctrl *gomock.Controller) *MockprogressReporter {
	mock := &MockprogressReporter{ctrl: ctrl}
	mock.recorder = &MockprogressReporterMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockprogressReporter) EXPECT() *MockprogressReporterMockRecorder {
	return m.recorder
}

// Report mocks base method.
func (m *MockprogressReporter) Report(ctx context.Context, rec tracker.Record) progress.Report {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Report", ctx, rec)
	ret0, _ := ret[0].(progress.Report)
	return ret0
}

// Report indicates an expected call of Report.
func (mr *MockprogressReporterMockRecorder) Report(ctx, rec any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Report", reflect.TypeOf((*MockprogressReporter)(nil).Report), ctx, rec)
}
