package docdef

import "strings"

// ParseError is one failure to parse a document node, carrying the path of
// keywords from the document root down to the offending node.
type ParseError struct {
	Path    []string
	Message string
}

func (e *ParseError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return strings.Join(e.Path, ".") + ": " + e.Message
}

func (e *ParseError) withPath(segment string) *ParseError {
	return &ParseError{Path: append([]string{segment}, e.Path...), Message: e.Message}
}

// HasErrors accumulates every independent ParseError found while walking a
// document tree, so a single malformed file reports all of its problems
// instead of stopping at the first.
type HasErrors struct {
	Errors []*ParseError
}

func (h *HasErrors) Error() string {
	msgs := make([]string, len(h.Errors))
	for i, e := range h.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (h *HasErrors) Add(err *ParseError) {
	h.Errors = append(h.Errors, err)
}

func (h *HasErrors) Any() bool {
	return len(h.Errors) > 0
}

func (h *HasErrors) AsError() error {
	if h.Any() {
		return h
	}
	return nil
}
