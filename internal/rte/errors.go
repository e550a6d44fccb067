package rte

import (
	"errors"

	"scorm_rte/internal/cmi"
)

var (
	ErrArgument           = errors.New("rte: invalid argument")
	ErrNotInitialized     = errors.New("rte: session not initialized")
	ErrTerminated         = errors.New("rte: session terminated")
	ErrAlreadyInitialized = errors.New("rte: session already initialized")
	ErrInitFailed         = errors.New("rte: initialization failed")
	ErrCommitFailed       = errors.New("rte: commit failed")
	ErrInvalidSession     = errors.New("rte: session is invalid")
	ErrUnknownMethod      = errors.New("rte: unknown API method")
)

const NoError = "0"

type op int

const (
	opInitialize op = iota
	opTerminate
	opGetValue
	opSetValue
	opCommit
)

var errorStrings2004 = map[string]string{
	"0":   "No error",
	"101": "General exception",
	"102": "General initialization failure",
	"103": "Already initialized",
	"104": "Content instance terminated",
	"111": "General termination failure",
	"112": "Termination before initialization",
	"113": "Termination after termination",
	"122": "Retrieve data before initialization",
	"123": "Retrieve data after termination",
	"132": "Store data before initialization",
	"133": "Store data after termination",
	"142": "Commit before initialization",
	"143": "Commit data after termination",
	"201": "General argument error",
	"301": "General get failure",
	"351": "General set failure",
	"391": "General commit failure",
	"401": "Undefined data model element",
	"402": "Unimplemented data model element",
	"403": "Data model element not initialized",
	"404": "Data model element is read only",
	"405": "Data model element is write only",
	"406": "Data model element type mismatch",
	"407": "Data model element value out of range",
	"408": "Data model dependency not established",
}

var errorStrings12 = map[string]string{
	"0":   "No error",
	"101": "General exception",
	"201": "Invalid argument error",
	"202": "Element cannot have children",
	"203": "Element not an array - cannot have count",
	"301": "Not initialized",
	"401": "Not implemented error",
	"402": "Invalid set value, element is a keyword",
	"403": "Element is read only",
	"404": "Element is write only",
	"405": "Incorrect data type",
}

// 2004 的状态错误码按操作区分初始化前/终止后
var (
	beforeInit2004 = map[op]string{opTerminate: "112", opGetValue: "122", opSetValue: "132", opCommit: "142"}
	afterTerm2004  = map[op]string{opInitialize: "104", opTerminate: "113", opGetValue: "123", opSetValue: "133", opCommit: "143"}
)

func code2004(o op, err error) string {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrArgument):
		return "201"
	case errors.Is(err, ErrNotInitialized):
		return beforeInit2004[o]
	case errors.Is(err, ErrTerminated):
		return afterTerm2004[o]
	case errors.Is(err, ErrAlreadyInitialized):
		return "103"
	case errors.Is(err, ErrInitFailed):
		return "102"
	case errors.Is(err, ErrCommitFailed):
		return "391"
	case errors.Is(err, ErrInvalidSession):
		return "351"
	}
	return "101"
}

// dataModelError 判断错误是否来自数据模型寻址或访问控制，而不是调用顺序
// 2004 接口不向内容页暴露这类错误
func dataModelError(err error) bool {
	return errors.Is(err, cmi.ErrUndefinedElement) ||
		errors.Is(err, cmi.ErrReadOnly) ||
		errors.Is(err, cmi.ErrWriteOnly) ||
		errors.Is(err, cmi.ErrKeyword) ||
		errors.Is(err, cmi.ErrNoChildren) ||
		errors.Is(err, cmi.ErrNotArray)
}

func code12(o op, err error) string {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, ErrArgument):
		return "201"
	case o == opInitialize:
		return "101"
	case errors.Is(err, ErrNotInitialized), errors.Is(err, ErrTerminated):
		return "301"
	case errors.Is(err, cmi.ErrUndefinedElement):
		return "401"
	case errors.Is(err, cmi.ErrKeyword):
		return "402"
	case errors.Is(err, cmi.ErrReadOnly):
		return "403"
	case errors.Is(err, cmi.ErrWriteOnly):
		return "404"
	case errors.Is(err, cmi.ErrNoChildren):
		return "202"
	case errors.Is(err, cmi.ErrNotArray):
		return "203"
	}
	return "101"
}
