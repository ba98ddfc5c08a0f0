package apierrors

import (
	"net/http"
	"sort"
	"strings"
	"sync"
)

// ErrorCode is a registered error.
type ErrorCode struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"http_status"`
}

// Namespace returns the part of the code before the colon, "core" when absent.
func (e ErrorCode) Namespace() string {
	if ns, _, ok := strings.Cut(e.Code, ":"); ok && ns != "" {
		return ns
	}
	return "core"
}

type registry struct {
	mu    sync.RWMutex
	codes map[string]ErrorCode
}

// Registry is the process-wide code table.
var Registry = &registry{codes: make(map[string]ErrorCode)}

// Register adds or replaces a code.
func (r *registry) Register(e ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[e.Code] = e
}

// Get looks up a code.
func (r *registry) Get(code string) (ErrorCode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.codes[code]
	return e, ok
}

// ByNamespace returns the codes of one namespace sorted by code.
func (r *registry) ByNamespace(ns string) []ErrorCode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ErrorCode
	for _, e := range r.codes {
		if e.Namespace() == ns {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// HTTPStatus returns the status for code, 500 when unknown.
func (r *registry) HTTPStatus(code string) int {
	if e, ok := r.Get(code); ok {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Message returns the default message for code, or code itself when unknown.
func (r *registry) Message(code string) string {
	if e, ok := r.Get(code); ok {
		return e.Message
	}
	return code
}
