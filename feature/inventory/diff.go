package inventory

import "section-mirror/core/reconcile"

// sectionLayout is the ordered item keys of one section.
type sectionLayout struct {
	name string
	keys []string
}

// layout is the ordered sections of one fetch.
type layout []sectionLayout

func (l layout) names() []string {
	out := make([]string, len(l))
	for i, sec := range l {
		out[i] = sec.name
	}
	return out
}

func (l layout) index() map[string]int {
	out := make(map[string]int, len(l))
	for i, sec := range l {
		out[sec.name] = i
	}
	return out
}

type sectionChange struct {
	kind  reconcile.ChangeKind
	index int
	name  string
}

type itemChange struct {
	kind reconcile.ChangeKind
	key  string
	from *reconcile.IndexPath
	to   *reconcile.IndexPath
}

// changeSet is one batch of notifications, in delivery order.
type changeSet struct {
	sections []sectionChange
	items    []itemChange
}

func (c changeSet) empty() bool {
	return len(c.sections) == 0 && len(c.items) == 0
}

// slot is a position in the intermediate sequence of a section.
type slot struct {
	section int
	index   int
}

// diffLayouts computes the notifications that turn prev into next when
// applied by a reconcile.Results. Keys in changed had their content modified.
//
// Per section the longest common subsequence of keys stays in place. Every
// other key is deleted from or inserted into the intermediate sequence (the
// old keys with all inserts applied), which is the index space the reconciler
// applies deletes in. A key both deleted and inserted becomes a move. Content
// changes become updates at the final index, unless the section also has
// deletes; then the changed key is moved instead so update and delete indices
// never collide.
func diffLayouts(prev, next layout, changed map[string]bool) changeSet {
	var cs changeSet

	prevNames, nextNames := prev.names(), next.names()
	stableSections := commonSubsequence(prevNames, nextNames)
	secDeleted, secInserted := interleave(prevNames, nextNames, stableSections)
	for _, name := range prevNames {
		if idx, ok := secDeleted[name]; ok {
			cs.sections = append(cs.sections, sectionChange{kind: reconcile.ChangeDelete, index: idx, name: name})
		}
	}
	for _, name := range nextNames {
		if idx, ok := secInserted[name]; ok {
			cs.sections = append(cs.sections, sectionChange{kind: reconcile.ChangeInsert, index: idx, name: name})
		}
	}

	nextIndex := next.index()
	deletedAt := make(map[string]slot)
	insertedAt := make(map[string]slot)
	var updates []itemChange

	for oi, sec := range prev {
		ni, ok := nextIndex[sec.name]
		if !ok || !stableSections[sec.name] {
			for j, key := range sec.keys {
				deletedAt[key] = slot{section: oi, index: j}
			}
			continue
		}

		target := next[ni]
		stable := commonSubsequence(sec.keys, target.keys)
		hasDeletes := len(stable) < len(sec.keys)
		if hasDeletes {
			for key := range stable {
				if changed[key] {
					delete(stable, key)
				}
			}
		}

		deleted, inserted := interleave(sec.keys, target.keys, stable)
		for key, idx := range deleted {
			deletedAt[key] = slot{section: oi, index: idx}
		}
		for key, idx := range inserted {
			insertedAt[key] = slot{section: ni, index: idx}
		}
		if !hasDeletes {
			for j, key := range target.keys {
				if stable[key] && changed[key] {
					updates = append(updates, itemChange{
						kind: reconcile.ChangeUpdate,
						key:  key,
						from: reconcile.Path(oi, j),
					})
				}
			}
		}
	}
	for ni, sec := range next {
		if stableSections[sec.name] {
			continue
		}
		for j, key := range sec.keys {
			insertedAt[key] = slot{section: ni, index: j}
		}
	}

	for _, sec := range prev {
		for _, key := range sec.keys {
			del, ok := deletedAt[key]
			if !ok {
				continue
			}
			ins, moved := insertedAt[key]
			if !moved {
				cs.items = append(cs.items, itemChange{
					kind: reconcile.ChangeDelete,
					key:  key,
					from: reconcile.Path(del.section, del.index),
				})
				continue
			}
			to := ins.index
			if prev[del.section].name == next[ins.section].name && stableSections[next[ins.section].name] && ins.index >= del.index {
				// The reconciler shifts a forward same-section move back by one.
				to = ins.index + 1
			}
			cs.items = append(cs.items, itemChange{
				kind: reconcile.ChangeMove,
				key:  key,
				from: reconcile.Path(del.section, del.index),
				to:   reconcile.Path(ins.section, to),
			})
		}
	}
	for _, sec := range next {
		for _, key := range sec.keys {
			ins, ok := insertedAt[key]
			if !ok {
				continue
			}
			if _, moved := deletedAt[key]; moved {
				continue
			}
			cs.items = append(cs.items, itemChange{
				kind: reconcile.ChangeInsert,
				key:  key,
				to:   reconcile.Path(ins.section, ins.index),
			})
		}
	}
	cs.items = append(cs.items, updates...)
	return cs
}

// interleave merges prev and next around the keys in stable and returns the
// position of every non-stable key in the merged sequence: removed keys of
// prev in deleted, added keys of next in inserted. stable must be a common
// subsequence of both.
func interleave(prev, next []string, stable map[string]bool) (deleted, inserted map[string]int) {
	deleted = make(map[string]int)
	inserted = make(map[string]int)
	i, j, m := 0, 0, 0
	for i < len(prev) || j < len(next) {
		for i < len(prev) && !stable[prev[i]] {
			deleted[prev[i]] = m
			m++
			i++
		}
		for j < len(next) && !stable[next[j]] {
			inserted[next[j]] = m
			m++
			j++
		}
		if i < len(prev) && j < len(next) {
			m++
			i++
			j++
		} else {
			break
		}
	}
	return deleted, inserted
}

// commonSubsequence returns the keys of a longest common subsequence of a and
// b. Keys are unique within each slice.
func commonSubsequence(a, b []string) map[string]bool {
	n, m := len(a), len(b)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}

	out := make(map[string]bool, dp[0][0])
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case a[i] == b[j]:
			out[a[i]] = true
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return out
}
