// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/wavetermdev/riptide/vdom"
)

// diffNode diffs one mounted node against a resolved descriptor of the new
// tree, appending patches depth-first in pre-order. A shape mismatch always
// produces Replace; a shape match updates in place and recurses.
func (r *Root) diffNode(old *TreeNode, newElem *vdom.Elem, parent *TreeNode, patches *[]Patch) error {
	if !sameShape(&old.Elem, newElem) {
		return r.replaceNode(old, newElem, parent, patches)
	}
	switch newElem.Kind {
	case vdom.KindNone:
		// nothing renders, nothing to do
	case vdom.KindText:
		if newElem.Escaping == vdom.EscapeNone {
			// raw markup cannot be rewritten in place
			if old.Elem.Text != newElem.Text {
				return r.replaceNode(old, newElem, parent, patches)
			}
		} else if old.Elem.Text != newElem.Text {
			text := newElem.Text
			*patches = append(*patches, Patch{Type: PatchUpdate, Target: old, Parent: parent, SetText: &text})
		}
	case vdom.KindReactiveText:
		// same signal id by shape; the binding keeps the backend current,
		// but a changed snapshot still syncs deterministically
		if old.Elem.Text != newElem.Text {
			text := newElem.Text
			*patches = append(*patches, Patch{Type: PatchUpdate, Target: old, Parent: parent, SetText: &text})
		}
	case vdom.KindClient:
		// hydrated out-of-band; only the host identity attributes diff,
		// never the subtree behind them
		var sets []vdom.Attr
		if old.Elem.ClientId != newElem.ClientId {
			sets = append(sets, vdom.Attr{Name: ClientIdAttr, Val: newElem.ClientId})
		}
		if old.Elem.ClientName != newElem.ClientName {
			sets = append(sets, vdom.Attr{Name: ClientNameAttr, Val: newElem.ClientName})
		}
		if len(sets) > 0 {
			*patches = append(*patches, Patch{Type: PatchUpdate, Target: old, Parent: parent, SetAttrs: sets})
		}
	case vdom.KindElement:
		if !newElem.IsFragment() {
			sets, removes := diffAttrs(old.Elem.Attrs, newElem.Attrs)
			if len(sets) > 0 || len(removes) > 0 {
				*patches = append(*patches, Patch{Type: PatchUpdate, Target: old, Parent: parent, SetAttrs: sets, RemoveAttrs: removes})
			}
		}
		if err := r.reconcileChildren(old, newElem.Children, patches); err != nil {
			return err
		}
	}
	old.Elem = *newElem
	old.Key = newElem.Key()
	return nil
}

func (r *Root) replaceNode(old *TreeNode, newElem *vdom.Elem, parent *TreeNode, patches *[]Patch) error {
	newNode, err := r.mountNode(newElem, nil, false)
	if err != nil {
		return err
	}
	*patches = append(*patches, Patch{Type: PatchReplace, Target: old, New: newNode, Parent: parent})
	return nil
}

// refCursor tracks the "next already-positioned" anchor during the backward
// walk: a sibling node, or the parent fragment's end marker, or nothing
// (container-end append).
type refCursor struct {
	node    *TreeNode
	fragEnd *TreeNode
}

func startCursor(parent *TreeNode, anchor *TreeNode) refCursor {
	if anchor != nil {
		return refCursor{node: anchor}
	}
	if parent.IsFragment() {
		return refCursor{fragEnd: parent}
	}
	return refCursor{}
}

// reconcileChildren aligns parent's mounted children against the new
// descriptor children: two-ended prefix/suffix convergence, then LIS over
// the reordered middle to minimize Move patches.
func (r *Root) reconcileChildren(parent *TreeNode, newChildren []vdom.Elem, patches *[]Patch) error {
	oldList := parent.Children
	resolved := make([]*vdom.Elem, len(newChildren))
	resolve := func(i int) (*vdom.Elem, error) {
		if resolved[i] == nil {
			res, err := r.resolveElem(&newChildren[i])
			if err != nil {
				return nil, err
			}
			resolved[i] = res
		}
		return resolved[i], nil
	}

	oldLo, oldHi := 0, len(oldList)-1
	newLo, newHi := 0, len(newChildren)-1

	// prefix scan: update matched heads in place
	for oldLo <= oldHi && newLo <= newHi {
		res, err := resolve(newLo)
		if err != nil {
			return err
		}
		old := oldList[oldLo]
		if !sameShape(&old.Elem, res) || old.Key != res.Key() {
			break
		}
		if err := r.diffNode(old, res, parent, patches); err != nil {
			return err
		}
		oldLo++
		newLo++
	}
	// suffix scan: converge from the tail, bounded by the consumed prefix
	for oldLo <= oldHi && newLo <= newHi {
		res, err := resolve(newHi)
		if err != nil {
			return err
		}
		old := oldList[oldHi]
		if !sameShape(&old.Elem, res) || old.Key != res.Key() {
			break
		}
		if err := r.diffNode(old, res, parent, patches); err != nil {
			return err
		}
		oldHi--
		newHi--
	}

	// anchor: the first already-positioned node after the unconsumed range
	var anchor *TreeNode
	if oldHi+1 < len(oldList) {
		anchor = oldList[oldHi+1]
	}

	if oldLo > oldHi {
		// old side consumed: every remaining new item is a fresh placement
		cursor := startCursor(parent, anchor)
		for i := newLo; i <= newHi; i++ {
			res, err := resolve(i)
			if err != nil {
				return err
			}
			newNode, err := r.mountNode(res, nil, false)
			if err != nil {
				return err
			}
			*patches = append(*patches, Patch{
				Type: PatchPlacement, New: newNode, Parent: parent,
				RefNode: cursor.node, RefFragmentEnd: cursor.fragEnd, Index: i,
			})
		}
		return nil
	}
	if newLo > newHi {
		// new side consumed: every remaining old item goes away
		for j := oldLo; j <= oldHi; j++ {
			*patches = append(*patches, Patch{Type: PatchDeletion, Target: oldList[j], Parent: parent})
		}
		return nil
	}

	return r.reconcileMiddle(parent, oldList, oldLo, oldHi, newLo, newHi, anchor, resolve, resolved, patches)
}

// reconcileMiddle handles a genuinely reordered section on both sides.
// Matched pairs diff in place; the LIS of their old indices (in new order)
// anchors the layout, and everything else becomes Placement or Move,
// emitted in a backward walk so each lands with one insert-before.
func (r *Root) reconcileMiddle(parent *TreeNode, oldList []*TreeNode, oldLo, oldHi, newLo, newHi int,
	anchor *TreeNode, resolve func(int) (*vdom.Elem, error), resolved []*vdom.Elem, patches *[]Patch) error {

	// key -> old indices, FIFO so duplicate keys match deterministically in
	// scan order
	keyQueues := make(map[string][]int)
	for j := oldLo; j <= oldHi; j++ {
		if oldList[j].Key != "" {
			keyQueues[oldList[j].Key] = append(keyQueues[oldList[j].Key], j)
		}
	}

	matched := make(map[int]bool)
	src := make([]int, newHi-newLo+1) // old index per new position, -1 = fresh
	for i := newLo; i <= newHi; i++ {
		src[i-newLo] = -1
		res, err := resolve(i)
		if err != nil {
			return err
		}
		key := res.Key()
		if key == "" {
			continue
		}
		queue := keyQueues[key]
		for qi, j := range queue {
			if !sameShape(&oldList[j].Elem, res) {
				continue
			}
			keyQueues[key] = append(queue[:qi:qi], queue[qi+1:]...)
			src[i-newLo] = j
			matched[j] = true
			if err := r.diffNode(oldList[j], res, parent, patches); err != nil {
				return err
			}
			break
		}
	}

	for j := oldLo; j <= oldHi; j++ {
		if !matched[j] {
			*patches = append(*patches, Patch{Type: PatchDeletion, Target: oldList[j], Parent: parent})
		}
	}

	inLis := lisPositions(src)

	cursor := startCursor(parent, anchor)
	for i := newHi; i >= newLo; i-- {
		s := src[i-newLo]
		if s == -1 {
			newNode, err := r.mountNode(resolved[i], nil, false)
			if err != nil {
				return err
			}
			*patches = append(*patches, Patch{
				Type: PatchPlacement, New: newNode, Parent: parent,
				RefNode: cursor.node, RefFragmentEnd: cursor.fragEnd, Index: i,
			})
			cursor = refCursor{node: newNode}
			continue
		}
		if inLis[i-newLo] {
			cursor = refCursor{node: oldList[s]}
			continue
		}
		*patches = append(*patches, Patch{
			Type: PatchMove, Target: oldList[s], Parent: parent,
			RefNode: cursor.node, RefFragmentEnd: cursor.fragEnd, Index: i,
		})
		cursor = refCursor{node: oldList[s]}
	}
	return nil
}

// lisPositions marks which positions of src participate in the longest
// strictly increasing subsequence of its non-negative values. Those
// positions keep their relative backend order and need no Move.
func lisPositions(src []int) []bool {
	inLis := make([]bool, len(src))
	tails := make([]int, 0, len(src)) // positions of current best tails
	prev := make([]int, len(src))
	for i, v := range src {
		prev[i] = -1
		if v < 0 {
			continue
		}
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if src[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}
	if len(tails) > 0 {
		for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
			inLis[i] = true
		}
	}
	return inLis
}
