//go:build !indexdebug

package indexer

// debug gates contract checks. Build with -tags indexdebug to enable them.
const debug = false

func assertf(bool, string, ...any) {}
