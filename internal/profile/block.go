// Package profile inserts and removes marked export blocks in shell startup files.
package profile

import (
	"path"
	"strings"

	"github.com/conn-castle/toolbelt/internal/catalog"
	"github.com/conn-castle/toolbelt/internal/envfile"
)

// Var is one export managed inside a block. An empty Value marks a variable
// that belongs to the block but is not applied in this run.
type Var struct {
	Name      string
	Value     string
	PathEntry bool
}

// Block describes one tool's region in a profile file.
type Block struct {
	Marker       string
	Variables    []Var
	Removal      catalog.Removal
	RemovalMatch string
}

// ApplyResult lists which variables Apply added and which were already present.
type ApplyResult struct {
	Added             []string
	AlreadyConfigured []string
}

// Changed reports whether Apply produced new content.
func (r ApplyResult) Changed() bool { return len(r.Added) > 0 }

// RemoveResult reports what Remove excised.
type RemoveResult struct {
	Removed      bool
	LinesRemoved int
}

// HeaderLine returns the comment line that opens a block.
func HeaderLine(marker string) string {
	return "# >>> " + marker + " >>>"
}

// Line renders the export line for v.
func (v Var) Line() string {
	if v.PathEntry {
		return envfile.FormatPathExport(v.Value)
	}
	return envfile.FormatExport(v.Name, v.Value)
}

// Active returns the variables that carry a value for this run.
func (b Block) Active() []Var {
	out := make([]Var, 0, len(b.Variables))
	for _, v := range b.Variables {
		if v.Value != "" {
			out = append(out, v)
		}
	}
	return out
}

// Apply returns content with every missing active variable of block inserted.
// Detection is per variable: an export of the same name, or for PATH entries
// any line naming the entry as a whole path element. A block with a single
// active variable is also considered configured when its header is present.
// Missing lines are inserted at the end of an existing block, or appended as a
// new block. A non-empty file keeps its trailing newline state so that Remove
// restores it byte for byte.
func Apply(content string, block Block) (string, ApplyResult) {
	lines, trailing := splitLines(content)
	active := block.Active()
	headerIdx := findHeader(lines, block.Marker)

	var result ApplyResult
	var missing []Var
	exports := envfile.Exports(content)
	for _, v := range active {
		if (len(active) == 1 && headerIdx >= 0) || configured(lines, exports, v) {
			result.AlreadyConfigured = append(result.AlreadyConfigured, v.Name)
			continue
		}
		missing = append(missing, v)
		result.Added = append(result.Added, v.Name)
	}
	if len(missing) == 0 {
		return content, result
	}

	insert := make([]string, 0, len(missing)+1)
	for _, v := range missing {
		insert = append(insert, v.Line())
	}

	var out []string
	if headerIdx >= 0 {
		end := blockEnd(lines, headerIdx, block) + 1
		out = make([]string, 0, len(lines)+len(insert))
		out = append(out, lines[:end]...)
		out = append(out, insert...)
		out = append(out, lines[end:]...)
	} else {
		out = make([]string, 0, len(lines)+len(insert)+1)
		out = append(out, lines...)
		out = append(out, HeaderLine(block.Marker))
		out = append(out, insert...)
	}
	return joinLines(out, trailing || content == ""), result
}

// Remove returns content with the block excised using the block's removal strategy.
func Remove(content string, block Block) (string, RemoveResult) {
	lines, trailing := splitLines(content)
	header := HeaderLine(block.Marker)
	keep := make([]string, 0, len(lines))
	removed := 0

	switch block.Removal {
	case catalog.RemovalLineFilter:
		for _, line := range lines {
			if strings.TrimSpace(line) == header || (block.RemovalMatch != "" && strings.Contains(line, block.RemovalMatch)) {
				removed++
				continue
			}
			keep = append(keep, line)
		}
	default:
		for i := 0; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) != header {
				keep = append(keep, lines[i])
				continue
			}
			end := blockEnd(lines, i, block)
			removed += end - i + 1
			i = end
		}
	}

	if removed == 0 {
		return content, RemoveResult{}
	}
	return joinLines(keep, trailing), RemoveResult{Removed: true, LinesRemoved: removed}
}

// HasBlock reports whether content contains the block header.
func HasBlock(content string, marker string) bool {
	lines, _ := splitLines(content)
	return findHeader(lines, marker) >= 0
}

func configured(lines []string, exports []envfile.Export, v Var) bool {
	if v.PathEntry {
		for _, line := range lines {
			if mentionsEntry(line, v.Value) {
				return true
			}
		}
		return false
	}
	for _, e := range exports {
		if e.Name == v.Name {
			return true
		}
	}
	return false
}

func findHeader(lines []string, marker string) int {
	header := HeaderLine(marker)
	for i, line := range lines {
		if strings.TrimSpace(line) == header {
			return i
		}
	}
	return -1
}

// blockEnd returns the index of the last contiguous line belonging to the block
// whose header is at headerIdx.
func blockEnd(lines []string, headerIdx int, block Block) int {
	end := headerIdx
	for end+1 < len(lines) && belongs(lines[end+1], block) {
		end++
	}
	return end
}

func belongs(line string, block Block) bool {
	name, value, ok, err := envfile.ParseLine(line)
	if err != nil || !ok {
		return false
	}
	for _, v := range block.Variables {
		if v.Name != name {
			continue
		}
		if !v.PathEntry {
			return true
		}
		if v.Value == "" {
			continue
		}
		entry, _, _ := strings.Cut(value, ":")
		if mentionsEntry(value, v.Value) {
			return true
		}
		if matched, err := path.Match(v.Value, entry); err == nil && matched {
			return true
		}
	}
	return false
}

// mentionsEntry reports whether entry appears in line delimited as a whole
// path element, optionally followed by a single slash.
func mentionsEntry(line string, entry string) bool {
	entry = strings.TrimSuffix(entry, "/")
	if entry == "" {
		return false
	}
	for from := 0; from < len(line); {
		i := strings.Index(line[from:], entry)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(entry)
		if end < len(line) && line[end] == '/' {
			end++
		}
		if (start == 0 || isPathDelim(line[start-1])) && (end == len(line) || isPathDelim(line[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

func isPathDelim(c byte) bool {
	return strings.IndexByte(":\"'=() \t;", c) >= 0
}

// splitLines splits content into lines and reports whether it ended with a newline.
func splitLines(content string) ([]string, bool) {
	if content == "" {
		return nil, false
	}
	trailing := strings.HasSuffix(content, "\n")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n"), trailing
}

func joinLines(lines []string, trailing bool) string {
	if len(lines) == 0 {
		return ""
	}
	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}
