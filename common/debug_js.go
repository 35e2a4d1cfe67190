//go:build js
// +build js

package common

import "github.com/gopherjs/gopherjs/js"

var consoleMethod = map[Level]string{
	LevelDebug: "log",
	LevelWarn:  "warn",
	LevelError: "error",
}

// emit hands args to the browser console unformatted so objects stay
// inspectable.
func emit(l Level, args []interface{}) {
	js.Global.Get("console").Call(consoleMethod[l], args...)
}
