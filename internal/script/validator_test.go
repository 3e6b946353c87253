package script

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func mustCompile(t *testing.T, src string, opts ...Option) *Validator {
	t.Helper()
	v, err := Compile("test", src, opts...)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func TestValidate(t *testing.T) {
	v := mustCompile(t, `
		if type(value) ~= "number" then
			return false, "not a number"
		end
		if value < 1 or value > 6 then
			return false, "level must be between 1 and 6"
		end
		return true
	`)

	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{"in range", 3, ""},
		{"float in range", 2.5, ""},
		{"too large", 9, "level must be between 1 and 6"},
		{"wrong type", "three", "not a number"},
		{"nil", nil, "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.value)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate(%v) = %v, want nil", tt.value, err)
				}
				return
			}
			var rej *RejectedError
			if !errors.As(err, &rej) {
				t.Fatalf("Validate(%v) = %v, want RejectedError", tt.value, err)
			}
			if rej.Message != tt.wantErr {
				t.Errorf("message = %q, want %q", rej.Message, tt.wantErr)
			}
			if !errors.Is(err, ErrRejected) {
				t.Error("RejectedError should wrap ErrRejected")
			}
		})
	}
}

func TestValidateArgument(t *testing.T) {
	v := mustCompile(t, `local v = ... return v == "ok"`)
	if err := v.Validate("ok"); err != nil {
		t.Errorf("Validate(ok) = %v", err)
	}
	err := v.Validate("no")
	if !errors.Is(err, ErrRejected) {
		t.Errorf("Validate(no) = %v, want rejection", err)
	}
	if !strings.Contains(err.Error(), "value rejected") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestValidateTables(t *testing.T) {
	v := mustCompile(t, `
		if type(value) ~= "table" then return false, "not a table" end
		if #value.items ~= 2 then return false, "want two items" end
		return value.items[1] == "a" and value.name == "x"
	`)
	ok := map[string]any{"name": "x", "items": []any{"a", "b"}}
	if err := v.Validate(ok); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	bad := map[string]any{"name": "x", "items": []string{"a"}}
	var rej *RejectedError
	if err := v.Validate(bad); !errors.As(err, &rej) || rej.Message != "want two items" {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidateNoResult(t *testing.T) {
	v := mustCompile(t, `local x = 1`)
	if err := v.Validate(1); !errors.Is(err, ErrRejected) {
		t.Errorf("Validate() = %v, want rejection", err)
	}
}

func TestCompileError(t *testing.T) {
	_, err := Compile("broken", `return (`)
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile() = %v, want CompileError", err)
	}
	if ce.Name != "broken" {
		t.Errorf("Name = %q", ce.Name)
	}
}

func TestRuntimeError(t *testing.T) {
	v := mustCompile(t, `error("boom")`)
	err := v.Validate(1)
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("Validate() = %v, want RuntimeError", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry the Lua message", err)
	}
	// The state stays usable after a Lua error.
	if err := v.Validate(1); !errors.As(err, &re) {
		t.Errorf("second Validate() = %v", err)
	}
}

func TestSandbox(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no io", `return io == nil`},
		{"no os", `return os == nil`},
		{"no load", `return load == nil and loadstring == nil`},
		{"no dofile", `return dofile == nil and loadfile == nil`},
		{"no require", `return require == nil`},
		{"string library", `return string.upper("a") == "A"`},
		{"math library", `return math.floor(2.5) == 2`},
		{"table library", `local t = {} table.insert(t, 1) return #t == 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustCompile(t, tt.src)
			if err := v.Validate(nil); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	v := mustCompile(t, `while true do end`, WithTimeout(50*time.Millisecond))
	if err := v.Validate(1); !errors.Is(err, ErrTimeout) {
		t.Errorf("Validate() = %v, want ErrTimeout", err)
	}

	quick := mustCompile(t, `return value < 10`, WithTimeout(50*time.Millisecond))
	if err := quick.Validate(1); err != nil {
		t.Errorf("Validate() after rebuild = %v", err)
	}
}

func TestStateRebuiltAfterTimeout(t *testing.T) {
	v := mustCompile(t, `if value then while true do end end return true`, WithTimeout(50*time.Millisecond))
	if err := v.Validate(true); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Validate(true) = %v, want ErrTimeout", err)
	}
	if err := v.Validate(false); err != nil {
		t.Errorf("Validate(false) = %v", err)
	}
}

func TestClose(t *testing.T) {
	v := mustCompile(t, `return true`)
	if err := v.Validate(1); err != nil {
		t.Fatal(err)
	}
	v.Close()
	if err := v.Validate(1); !errors.Is(err, ErrClosed) {
		t.Errorf("Validate() after Close = %v, want ErrClosed", err)
	}
}

func TestConcurrentValidate(t *testing.T) {
	v := mustCompile(t, `return value % 2 == 0, "odd"`)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := v.Validate(n * 2)
			if err != nil {
				t.Errorf("Validate(%d) = %v", n*2, err)
			}
		}(i)
	}
	wg.Wait()
}
