package rte

import (
	"fmt"

	"scorm_rte/internal/model"
)

// Caller dispatches API calls by method name. The bridge uses it to forward
// calls made on the browser side window.API objects.
type Caller interface {
	Call(method string, args ...string) (any, error)
	Session() *Session
}

// NewCaller returns the call surface matching the session version.
func NewCaller(s *Session) Caller {
	if s.Version() == model.Version12 {
		return NewAPI12(s)
	}
	return NewAPI2004(s)
}

// arg returns the i-th argument; missing arguments read as "".
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func checkArity(method string, args []string, limit int) error {
	if len(args) > limit {
		return fmt.Errorf("%w: %s takes at most %d arguments", ErrArgument, method, limit)
	}
	return nil
}

func (a *API2004) Call(method string, args ...string) (any, error) {
	limit := 1
	switch method {
	case "SetValue":
		limit = 2
	case "GetLastError":
		limit = 0
	}
	if err := checkArity(method, args, limit); err != nil {
		return nil, err
	}

	switch method {
	case "Initialize":
		return a.Initialize(arg(args, 0)), nil
	case "Terminate":
		return a.Terminate(arg(args, 0)), nil
	case "GetValue":
		return a.GetValue(arg(args, 0)), nil
	case "SetValue":
		return a.SetValue(arg(args, 0), arg(args, 1)), nil
	case "Commit":
		return a.Commit(arg(args, 0)), nil
	case "GetLastError":
		return a.GetLastError(), nil
	case "GetErrorString":
		return a.GetErrorString(arg(args, 0)), nil
	case "GetDiagnostic":
		return a.GetDiagnostic(arg(args, 0)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}

func (a *API12) Call(method string, args ...string) (any, error) {
	limit := 1
	switch method {
	case "LMSSetValue":
		limit = 2
	case "LMSGetLastError":
		limit = 0
	}
	if err := checkArity(method, args, limit); err != nil {
		return nil, err
	}

	switch method {
	case "LMSInitialize":
		return a.LMSInitialize(arg(args, 0)), nil
	case "LMSFinish":
		return a.LMSFinish(arg(args, 0)), nil
	case "LMSGetValue":
		return a.LMSGetValue(arg(args, 0)), nil
	case "LMSSetValue":
		return a.LMSSetValue(arg(args, 0), arg(args, 1)), nil
	case "LMSCommit":
		return a.LMSCommit(arg(args, 0)), nil
	case "LMSGetLastError":
		return a.LMSGetLastError(), nil
	case "LMSGetErrorString":
		return a.LMSGetErrorString(arg(args, 0)), nil
	case "LMSGetDiagnostic":
		return a.LMSGetDiagnostic(arg(args, 0)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
}

// LastError reads the error register without resetting it.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorCode
}
