package rte

import "scorm_rte/pkg/monitoring"

const (
	trueValue  = "true"
	falseValue = "false"
)

// API2004 is the API_1484_11 call surface. Every method returns a string.
type API2004 struct {
	s *Session
}

func NewAPI2004(s *Session) *API2004 {
	return &API2004{s: s}
}

func (a *API2004) Session() *Session { return a.s }

// begin locks the session and resets the error register. The returned func
// records the call metric and unlocks.
func (a *API2004) begin(method string) func() {
	a.s.mu.Lock()
	a.s.errorCode = NoError
	return func() {
		monitoring.ObserveCall(string(a.s.Version()), method, a.s.errorCode)
		a.s.mu.Unlock()
	}
}

func (a *API2004) fail(o op, err error) string {
	a.s.errorCode = code2004(o, err)
	return falseValue
}

func (a *API2004) Initialize(param string) string {
	defer a.begin("Initialize")()
	if param != "" {
		return a.fail(opInitialize, ErrArgument)
	}
	if err := a.s.initialize(); err != nil {
		return a.fail(opInitialize, err)
	}
	return trueValue
}

func (a *API2004) Terminate(param string) string {
	defer a.begin("Terminate")()
	if param != "" {
		return a.fail(opTerminate, ErrArgument)
	}
	if err := a.s.terminate(); err != nil {
		return a.fail(opTerminate, err)
	}
	return trueValue
}

func (a *API2004) GetValue(element string) string {
	defer a.begin("GetValue")()
	v, err := a.s.getValue(element)
	if err != nil {
		// 数据模型错误只返回空串，错误码保持 0
		if !dataModelError(err) {
			a.s.errorCode = code2004(opGetValue, err)
		}
		return ""
	}
	return v
}

func (a *API2004) SetValue(element, value string) string {
	defer a.begin("SetValue")()
	err := a.s.setValue(element, value)
	// 未定义、只读或关键字元素：写入已记录到 activity report，不生效，对内容页视为成功
	if err != nil && !dataModelError(err) {
		return a.fail(opSetValue, err)
	}
	return trueValue
}

func (a *API2004) Commit(param string) string {
	defer a.begin("Commit")()
	if param != "" {
		return a.fail(opCommit, ErrArgument)
	}
	if err := a.s.requireInitialized(); err != nil {
		return a.fail(opCommit, err)
	}
	if err := a.s.commit(false); err != nil {
		return a.fail(opCommit, err)
	}
	return trueValue
}

func (a *API2004) GetLastError() string {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.s.errorCode
}

func (a *API2004) GetErrorString(code string) string {
	return errorStrings2004[code]
}

func (a *API2004) GetDiagnostic(code string) string {
	return a.s.takeDiagnostic()
}
