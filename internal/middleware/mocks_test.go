// Mocks for the interfaces in rate_limiting.go. Kept in sync by hand with the
// go:generate directive there.

package middleware_test

import (
	context "context"
	reflect "reflect"

	redis_rate "github.com/go-redis/redis_rate/v9"
	gomock "go.uber.org/mock/gomock"
)

// MockUpdateRateLimiter is a mock of UpdateRateLimiter interface.
type MockUpdateRateLimiter struct {
	ctrl     *gomock.Controller
	recorder *MockUpdateRateLimiterMockRecorder
	isgomock struct{}
}

// MockUpdateRateLimiterMockRecorder is the mock recorder for MockUpdateRateLimiter.
type MockUpdateRateLimiterMockRecorder struct {
	mock *MockUpdateRateLimiter
}

// NewMockUpdateRateLimiter creates a new mock instance.
func NewMockUpdateRateLimiter(ctrl *gomock.Controller) *MockUpdateRateLimiter {
	mock := &MockUpdateRateLimiter{ctrl: ctrl}
	mock.recorder = &MockUpdateRateLimiterMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockUpdateRateLimiter) EXPECT() *MockUpdateRateLimiterMockRecorder {
	return m.recorder
}

// Allow mocks base method.
func (m *MockUpdateRateLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Allow", ctx, key, limit)
	ret0, _ := ret[0].(*redis_rate.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Allow indicates an expected call of Allow.
func (mr *MockUpdateRateLimiterMockRecorder) Allow(ctx, key, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Allow", reflect.TypeOf((*MockUpdateRateLimiter)(nil).Allow), ctx, key, limit)
}
