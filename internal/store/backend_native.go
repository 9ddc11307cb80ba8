//go:build cgo

package store

import (
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// nativeBackend drives SQLite through the cgo-linked mattn/go-sqlite3
// driver. It supports the full pragma set, including the mmap_size tuning
// that the pure-Go backend cannot honor.
type nativeBackend struct{}

func (nativeBackend) Name() string       { return "native" }
func (nativeBackend) DriverName() string { return "sqlite3" }

func (b nativeBackend) SupportsPragma(name string) bool {
	return true
}

func (b nativeBackend) DSN(path string) string {
	var sb strings.Builder
	sb.WriteString(path)
	for i, p := range filterPragmas(b) {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		fmt.Fprintf(&sb, "_%s=%s", p.Name, p.Value)
	}
	return sb.String()
}

// defaultBackend is the native backend whenever the binary is built with
// cgo enabled; it is the faster driver and matches what the original
// teacher's migration tooling linked against.
func defaultBackend() Backend { return nativeBackend{} }
