package interpreter

import "time"

// builtins are the native functions bound in every interpreter's global environment.
var builtins = map[string]loxObject{
	"clock": &loxBuiltin{
		name:  "clock",
		arity: 0,
		fn: func([]loxObject) loxObject {
			return loxNumber(float32(time.Now().UnixNano()) / float32(time.Second))
		},
	},
}
