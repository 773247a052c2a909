// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/wavetermdev/riptide/vdom"
)

// UpdateComponents refreshes the stored descriptors on the mounted tree from
// a structurally identical new tree, without touching the backend. This is
// the cheap path for re-renders that only swap handler bindings or props:
// event delegation reads the stored descriptor, so stale closures would fire
// otherwise. Any structural difference is an error and callers should run a
// full Diff/Apply instead.
func (r *Root) UpdateComponents(newElem *vdom.Elem) error {
	r.guard.enter()
	defer r.guard.exit()

	if r.Tree == nil {
		return fmt.Errorf("engine: no mounted tree to update")
	}
	resolved, err := r.resolveElem(newElem)
	if err != nil {
		return err
	}
	return r.updateNode(r.Tree, resolved)
}

func (r *Root) updateNode(node *TreeNode, newElem *vdom.Elem) error {
	if !sameShape(&node.Elem, newElem) {
		return fmt.Errorf("engine: update shape mismatch at node %d (%s vs %s)", node.Id, describeElem(&node.Elem), describeElem(newElem))
	}
	if node.Key != newElem.Key() {
		return fmt.Errorf("engine: update key mismatch at node %d (%q vs %q)", node.Id, node.Key, newElem.Key())
	}
	if len(node.Children) != len(newElem.Children) {
		return fmt.Errorf("engine: update child count mismatch at node %d (%d vs %d)", node.Id, len(node.Children), len(newElem.Children))
	}
	node.Elem = *newElem
	for i, child := range node.Children {
		resolvedChild, err := r.resolveElem(&newElem.Children[i])
		if err != nil {
			return err
		}
		if err := r.updateNode(child, resolvedChild); err != nil {
			return err
		}
	}
	return nil
}

func describeElem(elem *vdom.Elem) string {
	if elem.IsNone() {
		return "none"
	}
	if elem.Kind == vdom.KindElement {
		return elem.Tag
	}
	return elem.Kind.String()
}
