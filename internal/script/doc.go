// Package script runs small Lua snippets that validate attribute values.
//
// Snippets run in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are available, and load, dofile, loadfile and
// require are removed. The value under test is bound to the global
// "value" and passed as the chunk's first argument.
//
// A snippet accepts a value by returning true. It rejects it by returning
// false, optionally followed by a message:
//
//	v, err := script.Compile("level", `
//	    if value < 1 or value > 6 then
//	        return false, "level must be between 1 and 6"
//	    end
//	    return true
//	`)
//	err = v.Validate(3) // nil
//	err = v.Validate(9) // *script.RejectedError
//
// Validators are safe for concurrent use. Each call is bounded by a
// timeout, after which the Lua state is discarded and rebuilt.
package script
