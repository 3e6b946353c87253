package script

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Validator is a compiled validation snippet.
type Validator struct {
	name    string
	proto   *lua.FunctionProto
	timeout time.Duration

	mu     sync.Mutex
	state  *state
	closed bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithTimeout sets the time limit of a single validation call.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// Compile parses a snippet. Name identifies the snippet in error messages.
func Compile(name, src string, opts ...Option) (*Validator, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, &CompileError{Name: name, Err: err}
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, &CompileError{Name: name, Err: err}
	}
	v := &Validator{name: name, proto: proto, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Name returns the snippet name.
func (v *Validator) Name() string { return v.name }

// Validate runs the snippet against value.
func (v *Validator) Validate(value any) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	return v.ValidateContext(ctx, value)
}

// ValidateContext runs the snippet against value until ctx is done.
func (v *Validator) ValidateContext(ctx context.Context, value any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.state == nil {
		v.state = newState()
	}
	L := v.state.L
	results, err := v.state.call(ctx, L.NewFunctionFromProto(v.proto), toLua(L, value))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// A cancelled state may hold a half-unwound stack.
			v.state.close()
			v.state = nil
			return errors.Join(ErrTimeout, ctxErr)
		}
		return &RuntimeError{Name: v.name, Err: err}
	}
	return v.verdict(results)
}

func (v *Validator) verdict(results []lua.LValue) error {
	if len(results) == 0 {
		return &RejectedError{Name: v.name, Message: "no result"}
	}
	if lua.LVAsBool(results[0]) {
		return nil
	}
	msg := ""
	if len(results) > 1 && results[1] != lua.LNil {
		msg = results[1].String()
	}
	return &RejectedError{Name: v.name, Message: msg}
}

// Close releases the Lua state. A closed validator returns ErrClosed.
func (v *Validator) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != nil {
		v.state.close()
		v.state = nil
	}
	v.closed = true
	return nil
}
