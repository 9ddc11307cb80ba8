package store

// Pragma is a single SQLite PRAGMA to apply at connection time.
type Pragma struct {
	Name  string
	Value string
}

// defaultPragmas is the full pragma set the store wants applied; each
// Backend filters it down to what it can actually honor.
var defaultPragmas = []Pragma{
	{"journal_mode", "WAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
	{"synchronous", "NORMAL"},
	{"mmap_size", "268435456"},
}

// Backend abstracts the two interchangeable SQLite drivers the store can
// run on: a native cgo backend (mattn/go-sqlite3) and a portable pure-Go
// backend (modernc.org/sqlite). Both speak database/sql, so Store itself
// never imports either driver directly.
type Backend interface {
	// Name identifies the backend for logging ("native", "portable").
	Name() string
	// DriverName is the database/sql driver name registered by this backend.
	DriverName() string
	// DSN builds a data-source-name for path, applying every pragma this
	// backend supports.
	DSN(path string) string
	// SupportsPragma reports whether this backend can honor a given pragma.
	// Unsupported pragmas are silently dropped from the DSN rather than
	// failing the connection.
	SupportsPragma(name string) bool
}

func filterPragmas(b Backend) []Pragma {
	out := make([]Pragma, 0, len(defaultPragmas))
	for _, p := range defaultPragmas {
		if b.SupportsPragma(p.Name) {
			out = append(out, p)
		}
	}
	return out
}
