package core

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"
)

// walkNode is the part of a commit the walker needs to order and filter it.
type walkNode struct {
	hash       plumbing.Hash
	parents    []plumbing.Hash
	committed  time.Time
	authored   time.Time
	childCount int
}

// CommitWalker yields the commits reachable from HEAD, newest first, never emitting a
// parent before all of its children. Ties on committer time are broken by hash.
//
// The graph is read once on construction. Next then pops commits from a heap keyed on
// committer time and skips those whose author time is outside the window.
// A walker is single use.
type CommitWalker struct {
	window schema.DateRange
	nodes  map[plumbing.Hash]*walkNode
	queue  *binaryheap.Heap
}

// NewCommitWalker prepares a walk from the current HEAD of repo.
// An unborn HEAD (no commits yet) produces an empty walk.
func NewCommitWalker(repo *git.Repository, window schema.DateRange) (*CommitWalker, error) {
	w := &CommitWalker{
		window: window,
		nodes:  make(map[plumbing.Hash]*walkNode),
		queue:  binaryheap.NewWith(newestFirst),
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return w, nil
	}
	if err != nil {
		return nil, &contract.TraversalError{Err: err}
	}

	if err := w.load(repo, head.Hash()); err != nil {
		return nil, err
	}
	w.queue.Push(w.nodes[head.Hash()])
	return w, nil
}

// load reads every commit reachable from start and counts children per commit.
// Parents of shallow commits are not followed.
func (w *CommitWalker) load(repo *git.Repository, start plumbing.Hash) error {
	shallow := shallowCommits(repo)

	stack := []plumbing.Hash{start}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := w.nodes[h]; ok {
			continue
		}

		c, err := repo.CommitObject(h)
		if err != nil {
			return &contract.TraversalError{Hash: h.String(), Err: err}
		}
		node := &walkNode{
			hash:      h,
			committed: c.Committer.When,
			authored:  commitTime(c.Author.When, time.Now),
		}
		if _, cut := shallow[h]; !cut {
			node.parents = c.ParentHashes
		}
		w.nodes[h] = node
		stack = append(stack, node.parents...)
	}

	for _, node := range w.nodes {
		for _, p := range node.parents {
			w.nodes[p].childCount++
		}
	}
	return nil
}

// shallowCommits returns the commits at a shallow clone boundary. Their parents are
// not in the object store, so they are treated as root commits.
func shallowCommits(repo *git.Repository) map[plumbing.Hash]struct{} {
	shallow := make(map[plumbing.Hash]struct{})
	if hashes, err := repo.Storer.Shallow(); err == nil {
		for _, h := range hashes {
			shallow[h] = struct{}{}
		}
	}
	return shallow
}

// Next returns the next commit hash inside the window, or io.EOF when the walk is done.
func (w *CommitWalker) Next() (plumbing.Hash, error) {
	for {
		v, ok := w.queue.Pop()
		if !ok {
			return plumbing.ZeroHash, io.EOF
		}
		node := v.(*walkNode)
		for _, p := range node.parents {
			parent := w.nodes[p]
			parent.childCount--
			if parent.childCount == 0 {
				w.queue.Push(parent)
			}
		}
		if w.window.Contains(node.authored) {
			return node.hash, nil
		}
	}
}

// ForEach calls cb for each remaining commit. Returning storer.ErrStop from cb ends
// the walk without an error.
func (w *CommitWalker) ForEach(cb func(plumbing.Hash) error) error {
	for {
		h, err := w.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cb(h); err != nil {
			if err == storer.ErrStop {
				return nil
			}
			return err
		}
	}
}

// Size returns the number of commits reachable from HEAD, before date filtering.
func (w *CommitWalker) Size() int {
	return len(w.nodes)
}

// newestFirst orders walk nodes by committer time, newest on top of the heap.
func newestFirst(a, b interface{}) int {
	x, y := a.(*walkNode), b.(*walkNode)
	switch {
	case x.committed.After(y.committed):
		return -1
	case x.committed.Before(y.committed):
		return 1
	default:
		return strings.Compare(x.hash.String(), y.hash.String())
	}
}
