// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the virtual-tree reconciliation core: mounting
// descriptor trees into backend nodes, diffing a mounted tree against a new
// descriptor tree into a minimal patch list, and applying those patches.
//
// A Root is single-threaded: one mounted tree must never be diffed or
// patched from two goroutines at once (there is no internal locking beyond
// a misuse tripwire). Independent Roots may be driven concurrently.
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/wavetermdev/riptide/dom"
	"github.com/wavetermdev/riptide/vdom"
)

// Root is one reconciliation session: it owns the mounted tree, the node id
// counter, the id lookup map used by patch application and event delegation,
// and the signal-text bindings.
type Root struct {
	InstanceId string
	Doc        dom.Document
	Tree       *TreeNode

	container dom.Node // real backend parent the root tree attaches under
	nextId    atomic.Uint64
	nodeMap   map[uint64]*TreeNode
	// signal id -> (node id -> backend text node)
	signalBindings map[string]map[uint64]dom.Node
	guard          passGuard
}

// MakeRoot creates a session over a backend document.
func MakeRoot(doc dom.Document) *Root {
	return &Root{
		InstanceId:     uuid.New().String(),
		Doc:            doc,
		nodeMap:        make(map[uint64]*TreeNode),
		signalBindings: make(map[string]map[uint64]dom.Node),
	}
}

// SeedIds sets the next node id, for deterministic tests.
func (r *Root) SeedIds(next uint64) {
	if next == 0 {
		next = 1
	}
	r.nextId.Store(next - 1)
}

func (r *Root) newNodeId() uint64 {
	return r.nextId.Add(1)
}

// Mount builds the tree for elem and attaches it under container. The
// session owns the resulting nodes until Deinit or a structural patch
// releases them.
func (r *Root) Mount(elem *vdom.Elem, container dom.Node) error {
	r.guard.enter()
	defer r.guard.exit()

	if r.Tree != nil {
		return fmt.Errorf("engine: root already mounted")
	}
	if container == nil {
		return fmt.Errorf("engine: mount requires a container node")
	}
	resolved, err := r.resolveElem(elem)
	if err != nil {
		return err
	}
	node, err := r.mountNode(resolved, container, true)
	if err != nil {
		return err
	}
	r.container = container
	r.Tree = node
	return nil
}

// Diff computes the patch list that brings the mounted tree in line with
// newElem. Nothing in the backend or the tree structure is mutated; stored
// descriptors on matched nodes are refreshed in place.
func (r *Root) Diff(newElem *vdom.Elem) ([]Patch, error) {
	r.guard.enter()
	defer r.guard.exit()

	if r.Tree == nil {
		return nil, fmt.Errorf("engine: no mounted tree to diff")
	}
	resolved, err := r.resolveElem(newElem)
	if err != nil {
		return nil, err
	}
	var patches []Patch
	if err := r.diffNode(r.Tree, resolved, nil, &patches); err != nil {
		return nil, err
	}
	return patches, nil
}

// Render is the mount-or-reconcile convenience entry point.
func (r *Root) Render(elem *vdom.Elem, container dom.Node) error {
	if r.Tree == nil {
		return r.Mount(elem, container)
	}
	patches, err := r.Diff(elem)
	if err != nil {
		return err
	}
	return r.Apply(patches)
}

// LookupNode resolves a stamped reconciliation id back to its TreeNode, for
// event delegation.
func (r *Root) LookupNode(id uint64) *TreeNode {
	return r.nodeMap[id]
}

// SetSignalText rewrites the text of every backend node bound to signalId
// without running a reconciliation pass.
func (r *Root) SetSignalText(signalId string, text string) error {
	bindings := r.signalBindings[signalId]
	if len(bindings) == 0 {
		return fmt.Errorf("engine: signal %q has no bound nodes", signalId)
	}
	for nodeId, textNode := range bindings {
		if err := r.Doc.SetNodeValue(textNode, text); err != nil {
			return err
		}
		if node := r.nodeMap[nodeId]; node != nil {
			node.Elem.Text = text
		}
	}
	return nil
}

// BoundSignalCount reports how many nodes are bound to signalId.
func (r *Root) BoundSignalCount(signalId string) int {
	return len(r.signalBindings[signalId])
}

// Deinit releases the whole tree: backend roots are detached from the
// container and every owned node is released.
func (r *Root) Deinit() error {
	r.guard.enter()
	defer r.guard.exit()

	if r.Tree == nil {
		return nil
	}
	for _, root := range r.Tree.domRoots() {
		if err := r.Doc.RemoveChild(r.container, root); err != nil {
			return err
		}
	}
	r.releaseNode(r.Tree)
	r.Tree = nil
	r.container = nil
	return nil
}

func (r *Root) registerNode(node *TreeNode) {
	r.nodeMap[node.Id] = node
}

func (r *Root) registerSignalBinding(signalId string, node *TreeNode) {
	m := r.signalBindings[signalId]
	if m == nil {
		m = make(map[uint64]dom.Node)
		r.signalBindings[signalId] = m
	}
	m[node.Id] = node.Dom
}

// releaseNode recursively drops a subtree from the id map and the signal
// bindings. Backend detachment is the caller's responsibility.
func (r *Root) releaseNode(node *TreeNode) {
	if node == nil {
		return
	}
	delete(r.nodeMap, node.Id)
	if node.Elem.Kind == vdom.KindReactiveText {
		if m := r.signalBindings[node.Elem.SignalId]; m != nil {
			delete(m, node.Id)
			if len(m) == 0 {
				delete(r.signalBindings, node.Elem.SignalId)
			}
		}
	}
	for _, child := range node.Children {
		r.releaseNode(child)
	}
	node.Children = nil
	node.Dom = nil
	node.container = nil
}
