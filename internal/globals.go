package internal

import "time"

// defineGlobals installs the one builtin beyond the core language:
// clock().
func defineGlobals(globals *environment) {
	globals.define("clock", &nativeFn{
		name:   "clock",
		arityN: 0,
		callFn: func(in *interpreter, arguments []interface{}) interface{} {
			return float64(time.Now().UnixNano()) / float64(time.Second)
		},
	})
}
