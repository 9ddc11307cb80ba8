package scanner

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"
)

// markerMeta is the optional YAML front matter a .codegraphignore file may
// carry, delimited by "---" lines, to record why a subtree is excluded.
type markerMeta struct {
	Reason string `yaml:"reason"`
}

// parseMarkerFrontMatter reads a marker file's leading "---\n...\n---\n"
// block, if present, and decodes it. A marker file with no front matter (or
// an empty file, the common case: presence alone is the signal) yields a
// zero markerMeta and no error.
func parseMarkerFrontMatter(path string) (markerMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return markerMeta{}, err
	}
	block := frontMatterBlock(data)
	if block == nil {
		return markerMeta{}, nil
	}
	var meta markerMeta
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return markerMeta{}, err
	}
	return meta, nil
}

// frontMatterBlock returns the YAML between the first pair of "---" lines,
// or nil if the content doesn't open with one.
func frontMatterBlock(data []byte) []byte {
	const delim = "---"
	data = bytes.TrimLeft(data, "\n")
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil
	}
	rest := data[len(delim):]
	rest = bytes.TrimLeft(rest, "\r\n")
	end := bytes.Index(rest, []byte("\n"+delim))
	if end < 0 {
		return nil
	}
	return rest[:end]
}
