//go:build indexdebug

package indexer

import "fmt"

const debug = true

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("indexer: "+format, args...))
	}
}
