package envelope

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPathNotFound is returned when a path segment is absent and no
	// default was given
	ErrPathNotFound = errors.New("path not found in response")
	// ErrMissingStatus is returned when the unwrapped node has no status block
	ErrMissingStatus = errors.New("response has no status")
)

// VendorOperationError is returned when NetSuite reports isSuccess=false.
// Detail holds the statusDetail node as received.
type VendorOperationError struct {
	Detail any
}

func (e *VendorOperationError) Error() string {
	msgs := e.Messages()
	if len(msgs) == 0 {
		return fmt.Sprintf("netsuite operation failed: %v", e.Detail)
	}
	return "netsuite operation failed: " + strings.Join(msgs, "; ")
}

// Messages renders each statusDetail entry as "CODE: message"
func (e *VendorOperationError) Messages() []string {
	var out []string
	for _, d := range AsList(e.Detail) {
		m, ok := d.(map[string]any)
		if !ok {
			if d != nil {
				out = append(out, fmt.Sprint(d))
			}
			continue
		}
		code, _ := m["code"].(string)
		msg, _ := m["message"].(string)
		switch {
		case code != "" && msg != "":
			out = append(out, code+": "+msg)
		case code != "":
			out = append(out, code)
		case msg != "":
			out = append(out, msg)
		}
	}
	return out
}

// Extractor picks the payload out of a validated node
type Extractor func(node any) (any, error)

type options struct {
	path       []string
	extract    Extractor
	def        any
	hasDefault bool
}

// Option configures Unwrap
type Option func(*options)

// WithPath sets the dot separated path to the node carrying the status
func WithPath(path string) Option {
	return func(o *options) {
		if path == "" {
			o.path = nil
			return
		}
		o.path = strings.Split(path, ".")
	}
}

// WithExtract sets the extractor applied after the status check
func WithExtract(fn Extractor) Option {
	return func(o *options) {
		o.extract = fn
	}
}

// WithDefault sets the value returned when the path is absent
func WithDefault(v any) Option {
	return func(o *options) {
		o.def = v
		o.hasDefault = true
	}
}

// Unwrap descends into resp, checks the status block and returns the
// extracted payload. Values that are not maps or lists are returned as is.
//
// The status is read from the node's "status" field, or from the first
// element when the node is a list. An empty list is a success with an empty
// payload.
func Unwrap(resp any, opts ...Option) (any, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if !isTree(resp) {
		return resp, nil
	}

	node := resp
	for _, part := range o.path {
		m, ok := node.(map[string]any)
		var next any
		if ok {
			next, ok = m[part]
		}
		if !ok || next == nil {
			if o.hasDefault {
				return o.def, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, part)
		}
		node = next
	}

	if err := CheckStatus(node); err != nil {
		return nil, err
	}

	if o.extract != nil {
		return o.extract(node)
	}
	return node, nil
}

// CheckStatus validates the status block of a node
func CheckStatus(node any) error {
	var status any
	switch v := node.(type) {
	case map[string]any:
		status = v["status"]
	case []any:
		if len(v) == 0 {
			return nil
		}
		// Lists carry one status per record; the first one stands for all.
		first, ok := v[0].(map[string]any)
		if !ok {
			return ErrMissingStatus
		}
		status = first["status"]
	default:
		return ErrMissingStatus
	}

	m, ok := status.(map[string]any)
	if !ok {
		return ErrMissingStatus
	}
	if !isTrue(m["isSuccess"]) {
		return &VendorOperationError{Detail: m["statusDetail"]}
	}
	return nil
}

func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && ok
	}
	return false
}

func isTree(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// AsList normalizes a node that may hold one element or many. nil yields an
// empty list.
func AsList(v any) []any {
	switch l := v.(type) {
	case nil:
		return []any{}
	case []any:
		return l
	default:
		return []any{v}
	}
}

// Get walks a dot separated path through nested maps. Missing segments yield
// nil, mirroring optional XML elements.
func Get(node any, path string) any {
	for _, part := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[part]
	}
	return node
}

// Field returns an extractor reading path from the node
func Field(path string) Extractor {
	return func(node any) (any, error) {
		return Get(node, path), nil
	}
}

// ListField returns an extractor reading path from the node as a list
func ListField(path string) Extractor {
	return func(node any) (any, error) {
		return AsList(Get(node, path)), nil
	}
}

// Each returns an extractor applying fn to every element of the node
func Each(fn Extractor) Extractor {
	return func(node any) (any, error) {
		items := AsList(node)
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := fn(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}
