package ctxbuilder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codegraph/codegraph/internal/graphmodel"
)

// truncationMarker is appended to a code block whose source exceeds
// maxSize, per spec.md §4.8's "honoring max_code_block_size with
// truncation markers."
const truncationMarker = "\n... [truncated]\n"

// loadCodeBlock reads node's [StartLine, EndLine] slice from disk,
// relative to b.Root, capping the result at maxSize characters.
func (b *Builder) loadCodeBlock(node *graphmodel.Node, maxSize int) (*CodeBlock, error) {
	if node.FilePath == "" || node.StartLine == 0 || node.EndLine == 0 {
		return nil, fmt.Errorf("node %s has no loadable line range", node.ID)
	}

	abs := filepath.Join(b.Root, node.FilePath)
	source, err := readLines(abs, node.StartLine, node.EndLine)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", node.FilePath, err)
	}

	block := &CodeBlock{
		NodeID:    node.ID,
		FilePath:  node.FilePath,
		StartLine: node.StartLine,
		EndLine:   node.EndLine,
		Source:    source,
	}
	if len(block.Source) > maxSize {
		cut := maxSize - len(truncationMarker)
		if cut < 0 {
			cut = 0
		}
		block.Source = block.Source[:cut] + truncationMarker
		block.Truncated = true
	}
	return block, nil
}

// readLines reads the [startLine, endLine] slice of path, prefixing each
// line with its 1-based line number.
func readLines(path string, startLine, endLine int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum > endLine {
			break
		}
		if lineNum >= startLine {
			fmt.Fprintf(&sb, "%4d | %s\n", lineNum, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan: %w", err)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no lines found in range %d-%d (file has %d lines)", startLine, endLine, lineNum)
	}
	return sb.String(), nil
}
