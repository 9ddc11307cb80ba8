package store

import (
	"regexp"
	"strings"
)

var namedParamPattern = regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`)

// bindNamed rewrites a query written with ":name" placeholders into one
// using positional "?" placeholders, returning the arguments in the order
// the driver needs them. Both backends are driven through this path so
// query text never depends on which one is active; it exists because the
// portable backend's named-parameter support has historically lagged the
// native driver's, and keeping one binding strategy for both avoids two
// codepaths to keep in sync.
func bindNamed(query string, named map[string]any) (string, []any, error) {
	var missing []string
	args := make([]any, 0, len(named))

	rewritten := namedParamPattern.ReplaceAllStringFunc(query, func(tok string) string {
		name := tok[1:]
		val, ok := named[name]
		if !ok {
			missing = append(missing, name)
			return tok
		}
		args = append(args, val)
		return "?"
	})

	if len(missing) > 0 {
		return "", nil, &missingParamsError{names: missing}
	}
	return rewritten, args, nil
}

type missingParamsError struct {
	names []string
}

func (e *missingParamsError) Error() string {
	return "store: missing bind parameters: " + strings.Join(e.names, ", ")
}
