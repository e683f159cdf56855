// Mocks for the interfaces in reporter.go. Kept in sync by hand with the
// go:generate directive there.

package progress_test

import (
	context "context"
	reflect "reflect"

	tracker "github.com/2beens/nutribot/internal/tracker"
	gomock "go.uber.org/mock/gomock"
)

// MockChartRenderer is a mock of ChartRenderer interface.
type MockChartRenderer struct {
	ctrl     *gomock.Controller
	recorder *MockChartRendererMockRecorder
	isgomock struct{}
}

// MockChartRendererMockRecorder is the mock recorder for MockChartRenderer.
type MockChartRendererMockRecorder struct {
	mock *MockChartRenderer
}

// NewMockChartRenderer creates a new mock instance.
func NewMockChartRenderer(ctrl *gomock.Controller) *MockChartRenderer {
	mock := &MockChartRenderer{ctrl: ctrl}
	mock.recorder = &MockChartRendererMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockChartRenderer) EXPECT() *MockChartRendererMockRecorder {
	return m.recorder
}

// RenderProgressChart mocks base method.
func (m *MockChartRenderer) RenderProgressChart(ctx context.Context, userID int64, rec tracker.Record) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RenderProgressChart", ctx, userID, rec)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RenderProgressChart indicates an expected call of RenderProgressChart.
func (mr *MockChartRendererMockRecorder) RenderProgressChart(ctx, userID, rec any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RenderProgressChart", reflect.TypeOf((*MockChartRenderer)(nil).RenderProgressChart), ctx, userID, rec)
}
