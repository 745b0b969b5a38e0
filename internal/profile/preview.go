package profile

import (
	"github.com/aymanbagabas/go-udiff"
)

// Mode selects which mutation Preview renders.
type Mode int

// Preview modes.
const (
	ModeApply Mode = iota
	ModeRemove
)

// Diff is a unified diff of one file's pending change.
type Diff struct {
	Path        string
	UnifiedDiff string
}

// Preview renders the changes Apply or Remove would make without writing anything.
// Files that would not change, or do not exist, are omitted.
func (m *Mutator) Preview(block Block, paths []string, mode Mode) ([]Diff, error) {
	if mode == ModeApply && m.respectLiveEnv && m.LiveSatisfied(block) {
		return nil, nil
	}
	var diffs []Diff
	for _, p := range paths {
		file, found, err := m.read(p)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		var updated string
		if mode == ModeRemove {
			updated, _ = Remove(file.content, block)
		} else {
			updated, _ = Apply(file.content, block)
		}
		if updated == file.content {
			continue
		}
		diffs = append(diffs, Diff{
			Path:        p,
			UnifiedDiff: udiff.Unified(p+" (current)", p+" (planned)", file.content, updated),
		})
	}
	return diffs, nil
}
