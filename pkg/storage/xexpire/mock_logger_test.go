package xexpire

import (
	"context"
	"log/slog"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/omeyang/xexpire/pkg/observability/xlog"
)

// MockLogger 是 xlog.Logger 的 gomock 实现。
type MockLogger struct {
	ctrl     *gomock.Controller
	recorder *MockLoggerMockRecorder
}

// MockLoggerMockRecorder 记录 MockLogger 的期望调用。
type MockLoggerMockRecorder struct {
	mock *MockLogger
}

// NewMockLogger 创建 MockLogger。
func NewMockLogger(ctrl *gomock.Controller) *MockLogger {
	mock := &MockLogger{ctrl: ctrl}
	mock.recorder = &MockLoggerMockRecorder{mock}
	return mock
}

// EXPECT 返回用于设置期望的 recorder。
func (m *MockLogger) EXPECT() *MockLoggerMockRecorder {
	return m.recorder
}

func (m *MockLogger) call(method string, ctx context.Context, msg string, attrs []slog.Attr) {
	m.ctrl.T.Helper()
	varargs := []any{ctx, msg}
	for _, a := range attrs {
		varargs = append(varargs, a)
	}
	m.ctrl.Call(m, method, varargs...)
}

func (mr *MockLoggerMockRecorder) record(method string, fn any, ctx, msg any, attrs []any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	varargs := append([]any{ctx, msg}, attrs...)
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, method, reflect.TypeOf(fn), varargs...)
}

// Debug mocks base method.
func (m *MockLogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	m.ctrl.T.Helper()
	m.call("Debug", ctx, msg, attrs)
}

// Debug indicates an expected call of Debug.
func (mr *MockLoggerMockRecorder) Debug(ctx, msg any, attrs ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.record("Debug", (*MockLogger)(nil).Debug, ctx, msg, attrs)
}

// Info mocks base method.
func (m *MockLogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	m.ctrl.T.Helper()
	m.call("Info", ctx, msg, attrs)
}

// Info indicates an expected call of Info.
func (mr *MockLoggerMockRecorder) Info(ctx, msg any, attrs ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.record("Info", (*MockLogger)(nil).Info, ctx, msg, attrs)
}

// Warn mocks base method.
func (m *MockLogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	m.ctrl.T.Helper()
	m.call("Warn", ctx, msg, attrs)
}

// Warn indicates an expected call of Warn.
func (mr *MockLoggerMockRecorder) Warn(ctx, msg any, attrs ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.record("Warn", (*MockLogger)(nil).Warn, ctx, msg, attrs)
}

// Error mocks base method.
func (m *MockLogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	m.ctrl.T.Helper()
	m.call("Error", ctx, msg, attrs)
}

// Error indicates an expected call of Error.
func (mr *MockLoggerMockRecorder) Error(ctx, msg any, attrs ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.record("Error", (*MockLogger)(nil).Error, ctx, msg, attrs)
}

// With mocks base method.
func (m *MockLogger) With(attrs ...slog.Attr) xlog.Logger {
	m.ctrl.T.Helper()
	varargs := []any{}
	for _, a := range attrs {
		varargs = append(varargs, a)
	}
	ret := m.ctrl.Call(m, "With", varargs...)
	ret0, _ := ret[0].(xlog.Logger)
	return ret0
}

// With indicates an expected call of With.
func (mr *MockLoggerMockRecorder) With(attrs ...any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "With", reflect.TypeOf((*MockLogger)(nil).With), attrs...)
}

var _ xlog.Logger = (*MockLogger)(nil)
