//go:build !cgo

package store

import (
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// portableBackend drives SQLite through the pure-Go modernc.org/sqlite
// driver. It has no real mmap-backed I/O, so mmap_size is a no-op there
// and is filtered out rather than sent to the connection.
type portableBackend struct{}

func (portableBackend) Name() string       { return "portable" }
func (portableBackend) DriverName() string { return "sqlite" }

func (b portableBackend) SupportsPragma(name string) bool {
	return name != "mmap_size"
}

func (b portableBackend) DSN(path string) string {
	var sb strings.Builder
	sb.WriteString(path)
	for i, p := range filterPragmas(b) {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		fmt.Fprintf(&sb, "_pragma=%s(%s)", p.Name, p.Value)
	}
	return sb.String()
}

// defaultBackend falls back to the portable driver for CGO_ENABLED=0
// builds (cross-compiling, minimal containers) where the native backend
// can't be linked.
func defaultBackend() Backend { return portableBackend{} }
