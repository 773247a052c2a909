// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/wavetermdev/riptide/dom"
	"github.com/wavetermdev/riptide/vdom"
)

// NodeIdProperty is the backend property stamped on every mounted element so
// event delegation can map a backend node back to its TreeNode id.
const NodeIdProperty = "riptideId"

// TreeNode is the mounted, mutable counterpart of a descriptor. It owns its
// backend handle and child nodes; it is created once at mount and mutated in
// place until a Deletion or Replace patch releases it.
//
// Fragment nodes own no real backend node: Dom holds a zero-width end
// marker text node, placed after the fragment's children in the shared
// container, and container points at the nearest real ancestor element the
// children actually attach to. The end marker gives in-fragment appends a
// stable insert-before boundary even when siblings follow the fragment.
type TreeNode struct {
	Id       uint64
	Dom      dom.Node
	Elem     vdom.Elem
	Children []*TreeNode
	Key      string

	fragment  bool
	container dom.Node // children attach under this (self for elements)
}

// IsFragment reports whether the node is a fragment (marker-backed).
func (n *TreeNode) IsFragment() bool {
	return n.fragment
}

// Container returns the real backend element the node's children attach to.
func (n *TreeNode) Container() dom.Node {
	return n.container
}

// domRoots returns the backend nodes that represent this subtree at its
// attachment level: the node itself for real nodes, or each child's roots
// followed by the end marker for fragments. Position patches move every
// root, which is what keeps fragment subtrees contiguous in the backend.
func (n *TreeNode) domRoots() []dom.Node {
	if !n.fragment {
		return []dom.Node{n.Dom}
	}
	var roots []dom.Node
	for _, child := range n.Children {
		roots = append(roots, child.domRoots()...)
	}
	return append(roots, n.Dom)
}

// firstDomRoot returns the leading backend node of the subtree, used as the
// insertBefore reference when positioning siblings. For a fragment this is
// its first child's leading root, or the end marker when it is empty.
func (n *TreeNode) firstDomRoot() dom.Node {
	if n == nil {
		return nil
	}
	if n.fragment && len(n.Children) > 0 {
		return n.Children[0].firstDomRoot()
	}
	return n.Dom
}

// HandlerAttr returns the value of an event-handler attribute (onClick, ...)
// from the node's current descriptor, for use by an event-delegation layer.
func (n *TreeNode) HandlerAttr(event string) (string, bool) {
	if n.Elem.Kind != vdom.KindElement {
		return "", false
	}
	return n.Elem.AttrVal(event)
}

func childIndexById(children []*TreeNode, id uint64) int {
	for i, c := range children {
		if c.Id == id {
			return i
		}
	}
	return -1
}

func insertChildAt(children []*TreeNode, idx int, child *TreeNode) []*TreeNode {
	if idx < 0 {
		idx = 0
	}
	if idx > len(children) {
		idx = len(children)
	}
	children = append(children, nil)
	copy(children[idx+1:], children[idx:])
	children[idx] = child
	return children
}

func removeChildAt(children []*TreeNode, idx int) []*TreeNode {
	return append(children[:idx], children[idx+1:]...)
}
