package errors

import (
	"bytes"
	stderrors "errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMotionErrorString(t *testing.T) {
	err := &MotionError{
		Op:   "integrator.NewSpring",
		Kind: KindConfig,
		Err:  ErrInvalidParams,
	}
	assert.Equal(t, "integrator.NewSpring [config]: invalid physics parameters", err.Error())
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindPairing, "pairing"},
		{KindDrift, "drift"},
		{KindSimulation, "simulation"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String(), "ErrorKind(%d)", tt.kind)
	}
}

func TestConfigfWrapsSentinel(t *testing.T) {
	err := Configf("integrator.NewSpring", ErrInvalidParams, "stiffness must be > 0, got %v", -1.0)

	assert.True(t, stderrors.Is(err, ErrInvalidParams))
	assert.True(t, IsKind(err, KindConfig))
	assert.False(t, IsKind(err, KindDrift))
	assert.Contains(t, err.Error(), "stiffness must be > 0, got -1")
}

func TestIsKindNonMotionError(t *testing.T) {
	assert.False(t, IsKind(stderrors.New("plain"), KindConfig))
	assert.False(t, IsKind(nil, KindConfig))
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	assert.Equal(t, "panic: test panic", err.Error())

	err.Op = "ticker.Pulse"
	assert.Equal(t, "panic in ticker.Pulse: test panic", err.Error())
}

func TestReport(t *testing.T) {
	var captured *MotionError
	handler := &testHandler{onError: func(err *MotionError) { captured = err }}

	old := DefaultHandler
	SetHandler(handler)
	defer SetHandler(old)

	Report(&MotionError{Op: "test.op", Kind: KindConfig, Err: ErrNoSprings})

	require.NotNil(t, captured)
	assert.Equal(t, "test.op", captured.Op)
	assert.False(t, captured.Timestamp.IsZero(), "expected Timestamp to be set")
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{onPanic: func(err *PanicError) { captured = err }}

	old := DefaultHandler
	SetHandler(handler)
	defer SetHandler(old)

	func() {
		defer Recover("test.recover")
		panic("boom")
	}()

	require.NotNil(t, captured)
	assert.Equal(t, "test.recover", captured.Op)
	assert.Equal(t, "boom", captured.Value)
	assert.NotEmpty(t, captured.StackTrace)
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	_, ok := DefaultHandler.(*LogHandler)
	assert.True(t, ok, "SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
}

func TestLogHandlerWritesToLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	defer SetLogger(nil)

	h := &LogHandler{Verbose: true}
	h.HandleError(&MotionError{Op: "runner.Start", Kind: KindConfig, Err: ErrConflictingModes})
	h.HandlePanic(&PanicError{Op: "ticker.Pulse", Value: "boom"})

	out := buf.String()
	assert.Contains(t, out, "runner.Start")
	assert.Contains(t, out, "cannot use both tick and style modes together")
	assert.Contains(t, out, "ticker.Pulse")
}

type testHandler struct {
	onError func(*MotionError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *MotionError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
