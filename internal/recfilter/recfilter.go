// Package recfilter compiles optional CEL expressions used to select
// decoded ring records in the dump CLI and the records endpoint.
package recfilter

import (
	"encoding/hex"
	"strings"

	"github.com/google/cel-go/cel"
)

// Filter wraps a compiled CEL program. When disabled (empty expression),
// Eval always returns true.
type Filter struct {
	prog    cel.Program
	enabled bool
}

// New compiles expr against the record variables. An empty or blank
// expression yields a disabled filter.
//
// Variables: index (slot index), size (payload bytes), text (payload as
// string), hex (lowercase hex of the payload), byte0 (first payload
// byte as int).
func New(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("index", cel.IntType),
		cel.Variable("size", cel.IntType),
		cel.Variable("text", cel.StringType),
		cel.Variable("hex", cel.StringType),
		cel.Variable("byte0", cel.IntType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return Filter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, enabled: true}, nil
}

// Eval evaluates the expression against one decoded record. Evaluation
// errors reject the record.
func (f Filter) Eval(index int, payload []byte) bool {
	if !f.enabled {
		return true
	}
	var byte0 int64
	if len(payload) > 0 {
		byte0 = int64(payload[0])
	}
	out, _, err := f.prog.Eval(map[string]any{
		"index": int64(index),
		"size":  int64(len(payload)),
		"text":  string(payload),
		"hex":   hex.EncodeToString(payload),
		"byte0": byte0,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
