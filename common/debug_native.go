//go:build !js
// +build !js

package common

import (
	"fmt"
	"log"
	"strings"
)

func emit(l Level, args []interface{}) {
	msg := strings.TrimSuffix(fmt.Sprintln(args...), "\n")
	if l == LevelDebug {
		log.Print(msg)
		return
	}
	log.Print(l.String() + " " + msg)
}
