package core

import (
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// splitLines splits text into lines that keep their "\n" terminator.
// A final line without a terminator is kept as is, so "a" and "a\n" differ.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// countLineChanges returns how many lines must be added to and removed from a to get b.
//
// Lines unique to both sides anchor the match (patience diff). Regions without such
// anchors are handed to the Myers implementation shipped with go-git.
func countLineChanges(a, b []string) (added, removed int) {
	for len(a) > 0 && len(b) > 0 && a[0] == b[0] {
		a, b = a[1:], b[1:]
	}
	for len(a) > 0 && len(b) > 0 && a[len(a)-1] == b[len(b)-1] {
		a, b = a[:len(a)-1], b[:len(b)-1]
	}
	if len(a) == 0 || len(b) == 0 {
		return len(b), len(a)
	}

	anchors := uniqueAnchors(a, b)
	if len(anchors) == 0 {
		return myersLineChanges(a, b)
	}

	ai, bi := 0, 0
	for _, m := range anchors {
		add, rem := countLineChanges(a[ai:m.a], b[bi:m.b])
		added += add
		removed += rem
		ai, bi = m.a+1, m.b+1
	}
	add, rem := countLineChanges(a[ai:], b[bi:])
	return added + add, removed + rem
}

type anchor struct {
	a, b int
}

type occurrence struct {
	countA, countB int
	posA, posB     int
}

// uniqueAnchors pairs up lines that occur exactly once in a and once in b, then keeps
// the longest chain of pairs that is increasing on both sides.
func uniqueAnchors(a, b []string) []anchor {
	seen := make(map[string]*occurrence, len(a))
	for i, line := range a {
		o, ok := seen[line]
		if !ok {
			o = &occurrence{}
			seen[line] = o
		}
		o.countA++
		o.posA = i
	}
	for j, line := range b {
		if o, ok := seen[line]; ok {
			o.countB++
			o.posB = j
		}
	}

	var pairs []anchor
	for i, line := range a {
		if o := seen[line]; o.countA == 1 && o.countB == 1 {
			pairs = append(pairs, anchor{a: i, b: o.posB})
		}
	}
	return longestIncreasing(pairs)
}

// longestIncreasing returns the longest subsequence of pairs (already ordered by a)
// whose b positions strictly increase. Patience sorting with back pointers.
func longestIncreasing(pairs []anchor) []anchor {
	if len(pairs) == 0 {
		return nil
	}
	tails := make([]int, 0, len(pairs)) // index into pairs of the smallest tail per length
	prev := make([]int, len(pairs))
	for i, p := range pairs {
		k := sort.Search(len(tails), func(k int) bool { return pairs[tails[k]].b >= p.b })
		if k > 0 {
			prev[i] = tails[k-1]
		} else {
			prev[i] = -1
		}
		if k == len(tails) {
			tails = append(tails, i)
		} else {
			tails[k] = i
		}
	}

	out := make([]anchor, len(tails))
	for i, k := tails[len(tails)-1], len(tails)-1; k >= 0; i, k = prev[i], k-1 {
		out[k] = pairs[i]
	}
	return out
}

// myersLineChanges counts inserted and deleted lines reported by a line-mode Myers diff.
func myersLineChanges(a, b []string) (added, removed int) {
	for _, d := range diff.Do(strings.Join(a, ""), strings.Join(b, "")) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += lineCount(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += lineCount(d.Text)
		}
	}
	return added, removed
}

func lineCount(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
