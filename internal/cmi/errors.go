package cmi

import "errors"

var (
	ErrUndefinedElement = errors.New("undefined data model element")
	ErrNoChildren       = errors.New("element cannot have children")
	ErrNotArray         = errors.New("element not an array, cannot have count")
	ErrReadOnly         = errors.New("element is read only")
	ErrWriteOnly        = errors.New("element is write only")
	ErrKeyword          = errors.New("element is a keyword")
)
