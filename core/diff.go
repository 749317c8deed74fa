package core

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huangsam/repostat/internal/contract"
)

// DiffStats is the churn produced by one commit against its first parent.
type DiffStats struct {
	LinesAdded   int
	LinesRemoved int
	FilesChanged int
}

// noRenames keeps every file-level change as its own delta, like a plain tree-to-tree diff.
var noRenames = &object.DiffTreeOptions{DetectRenames: false}

// ComputeDiffStats diffs the tree of commit against the tree of parent. A nil parent
// means the commit is a root and is compared with the empty tree.
//
// Every delta counts toward FilesChanged. Binary deltas contribute no lines.
func ComputeDiffStats(ctx context.Context, commit, parent *object.Commit) (DiffStats, error) {
	var stats DiffStats
	hash := commit.Hash.String()

	to, err := commit.Tree()
	if err != nil {
		return stats, &contract.DiffComputationError{Hash: hash, Err: fmt.Errorf("tree: %w", err)}
	}
	var from *object.Tree
	if parent != nil {
		if from, err = parent.Tree(); err != nil {
			return stats, &contract.DiffComputationError{Hash: hash, Err: fmt.Errorf("parent tree: %w", err)}
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, from, to, noRenames)
	if err != nil {
		return stats, &contract.DiffComputationError{Hash: hash, Err: err}
	}

	stats.FilesChanged = len(changes)
	for _, change := range changes {
		added, removed, err := changeLineCounts(change)
		if err != nil {
			return DiffStats{}, &contract.DiffComputationError{
				Hash: hash,
				Err:  fmt.Errorf("%s: %w", changePath(change), err),
			}
		}
		stats.LinesAdded += added
		stats.LinesRemoved += removed
	}
	return stats, nil
}

// changeLineCounts returns the added and removed lines for one file-level delta.
func changeLineCounts(change *object.Change) (added, removed int, err error) {
	before, binBefore, err := entryLines(change.From)
	if err != nil {
		return 0, 0, err
	}
	after, binAfter, err := entryLines(change.To)
	if err != nil {
		return 0, 0, err
	}
	if binBefore || binAfter {
		return 0, 0, nil
	}
	added, removed = countLineChanges(before, after)
	return added, removed, nil
}

// entryLines loads the lines of one side of a delta. An absent side has no lines.
// A submodule is shown as a single "Subproject commit" line, the way git prints it.
func entryLines(entry object.ChangeEntry) (lines []string, binary bool, err error) {
	if entry.Tree == nil {
		return nil, false, nil
	}
	if entry.TreeEntry.Mode == filemode.Submodule {
		return []string{"Subproject commit " + entry.TreeEntry.Hash.String() + "\n"}, false, nil
	}

	file, err := entry.Tree.TreeEntryFile(&entry.TreeEntry)
	if err != nil {
		return nil, false, err
	}
	if binary, err = file.IsBinary(); err != nil || binary {
		return nil, binary, err
	}
	content, err := file.Contents()
	if err != nil {
		return nil, false, err
	}
	return splitLines(content), false, nil
}

func changePath(change *object.Change) string {
	if change.To.Name != "" {
		return change.To.Name
	}
	return change.From.Name
}
