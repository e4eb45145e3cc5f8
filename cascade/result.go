package cascade

import (
	"github.com/kbukum/cascade/util"
)

// Reserved result keys.
const (
	// KeyWarning holds the notice produced when the local node cannot identify itself.
	KeyWarning = "warning"
	// KeyUnexpectedError holds a failure that escaped a unit of work.
	KeyUnexpectedError = "unexpectedError"
	// KeyLocalFallback keys the local result when the node identifier is unknown.
	KeyLocalFallback = "local"
)

// Fixed result messages.
const (
	MsgCascadeDisabled = "Cascading is disabled."
	MsgInvalidResponse = "Invalid/unknown cascade response"
)

// Result is the outcome of one unit of work. It is also the body a peer
// answers a non-cascading request with.
type Result struct {
	Message        string   `json:"message,omitempty" yaml:"message,omitempty"`
	Success        bool     `json:"success,omitempty" yaml:"success,omitempty"`
	RuntimeSeconds *float64 `json:"runtimeSeconds,omitempty" yaml:"runtimeSeconds,omitempty"`
	ErrorMessage   string   `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// IsZero reports whether no field is set, as when a peer answers with an
// empty object.
func (r Result) IsZero() bool {
	return r.Message == "" && !r.Success && r.RuntimeSeconds == nil && r.ErrorMessage == ""
}

// Results is the aggregate report of one run.
type Results struct {
	CoordinatingNode    string            `json:"coordinatingNode" yaml:"coordinatingNode"`
	TotalRuntimeSeconds float64           `json:"totalRuntimeSeconds" yaml:"totalRuntimeSeconds"`
	Results             map[string]Result `json:"results" yaml:"results"`
}

// Keys returns the result keys in lexicographic order.
func (r *Results) Keys() []string {
	return util.SortedKeys(r.Results)
}

// LocalKey returns the key the coordinating node's own result is stored under.
func (r *Results) LocalKey() string {
	if r.CoordinatingNode == "" {
		return KeyLocalFallback
	}
	return r.CoordinatingNode
}

// Local returns the coordinating node's own result.
func (r *Results) Local() (Result, bool) {
	res, ok := r.Results[r.LocalKey()]
	return res, ok
}

// Failed returns, in key order, the keys of results that did not succeed.
// The warning entry is a notice, not a failure.
func (r *Results) Failed() []string {
	var failed []string
	for _, k := range r.Keys() {
		if k != KeyWarning && !r.Results[k].Success {
			failed = append(failed, k)
		}
	}
	return failed
}
