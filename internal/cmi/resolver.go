package cmi

import (
	"strconv"
	"strings"

	"scorm_rte/internal/model"
)

// MaxIndex bounds collection indices so a sparse write cannot allocate
// an unbounded number of gap entries.
const MaxIndex = 999

// Ref is a resolved data model address.
type Ref struct {
	Path       string
	Kind       Kind
	Field      Field
	Collection Collection
	Index      int
	SubIndex   int
	Access     Access
	// Text carries the fixed value of _children and _version.
	Text string
	// Canonical is set for legacy aliases that are also logged under their 2004 name.
	Canonical string
}

// Resolve 按版本语法解析点分路径，数字段在集合位置上转为下标
func Resolve(v model.Version, path string) (Ref, error) {
	s, ok := schemas[v]
	if !ok {
		return Ref{}, ErrUndefinedElement
	}

	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "cmi" {
		return Ref{}, ErrUndefinedElement
	}

	norm := make([]string, len(parts))
	indices := make([]int, 0, 2)
	for i, p := range parts {
		if n, ok := parseIndex(p); ok && i > 1 {
			norm[i] = "n"
			indices = append(indices, n)
			continue
		}
		norm[i] = p
	}

	e, ok := s[strings.Join(norm, ".")]
	if !ok {
		return Ref{}, keywordError(v, norm)
	}

	ref := Ref{
		Path:       path,
		Kind:       e.kind,
		Field:      e.field,
		Collection: e.collection,
		Index:      -1,
		SubIndex:   -1,
		Access:     e.access,
		Text:       e.text,
		Canonical:  e.canonical,
	}
	if len(indices) > 0 {
		ref.Index = indices[0]
	}
	if len(indices) > 1 {
		ref.SubIndex = indices[1]
	}
	return ref, nil
}

// keywordError tells a misplaced _children/_count on a known element apart
// from a path that does not exist at all.
func keywordError(v model.Version, norm []string) error {
	last := norm[len(norm)-1]
	if last != "_children" && last != "_count" {
		return ErrUndefinedElement
	}

	parent := strings.Join(norm[:len(norm)-1], ".")
	if _, leaf := schemas[v][parent]; !leaf && !branches[v][parent] {
		return ErrUndefinedElement
	}
	if last == "_children" {
		return ErrNoChildren
	}
	return ErrNotArray
}

func parseIndex(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxIndex {
		return 0, false
	}
	return n, true
}
