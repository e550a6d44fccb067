package rte

import (
	"scorm_rte/pkg/monitoring"
)

// API12 is the legacy window.API call surface. LMSInitialize and LMSFinish
// return booleans, the other methods strings.
type API12 struct {
	s *Session
}

func NewAPI12(s *Session) *API12 {
	return &API12{s: s}
}

func (a *API12) Session() *Session { return a.s }

func (a *API12) begin(method string) func() {
	a.s.mu.Lock()
	a.s.errorCode = NoError
	return func() {
		monitoring.ObserveCall(string(a.s.Version()), method, a.s.errorCode)
		a.s.mu.Unlock()
	}
}

func (a *API12) LMSInitialize(param string) bool {
	defer a.begin("LMSInitialize")()
	if param != "" {
		a.s.errorCode = code12(opInitialize, ErrArgument)
		return false
	}
	if err := a.s.initialize(); err != nil {
		a.s.errorCode = code12(opInitialize, err)
		return false
	}
	return true
}

func (a *API12) LMSFinish(param string) bool {
	defer a.begin("LMSFinish")()
	if param != "" {
		a.s.errorCode = code12(opTerminate, ErrArgument)
		return false
	}
	if err := a.s.terminate(); err != nil {
		a.s.errorCode = code12(opTerminate, err)
		return false
	}
	return true
}

func (a *API12) LMSGetValue(element string) string {
	defer a.begin("LMSGetValue")()
	v, err := a.s.getValue(element)
	if err != nil {
		a.s.errorCode = code12(opGetValue, err)
		return ""
	}
	return v
}

func (a *API12) LMSSetValue(element, value string) string {
	defer a.begin("LMSSetValue")()
	if err := a.s.setValue(element, value); err != nil {
		a.s.errorCode = code12(opSetValue, err)
		return falseValue
	}
	return trueValue
}

func (a *API12) LMSCommit(param string) string {
	defer a.begin("LMSCommit")()
	if param != "" {
		a.s.errorCode = code12(opCommit, ErrArgument)
		return falseValue
	}
	if err := a.s.requireInitialized(); err != nil {
		a.s.errorCode = code12(opCommit, err)
		return falseValue
	}
	if err := a.s.commit(false); err != nil {
		a.s.errorCode = code12(opCommit, err)
		return falseValue
	}
	return trueValue
}

func (a *API12) LMSGetLastError() string {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.s.errorCode
}

func (a *API12) LMSGetErrorString(code string) string {
	return errorStrings12[code]
}

func (a *API12) LMSGetDiagnostic(code string) string {
	return a.s.takeDiagnostic()
}
