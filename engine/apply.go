// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/wavetermdev/riptide/dom"
)

// Apply executes a patch list against the live tree and backend, in the
// exact order the diff generated it. Structural targets are validated by
// identity up front, then every mutation resolves positions and backend
// references from the live tree at its own application time, so earlier
// patches in the batch can shift siblings freely.
//
// Any failure is fatal for the pass: the tree may be partially mutated and
// callers must not retry.
func (r *Root) Apply(patches []Patch) error {
	r.guard.enter()
	defer r.guard.exit()

	for i := range patches {
		if err := r.validatePatch(i, &patches[i]); err != nil {
			return err
		}
	}

	i := 0
	for i < len(patches) {
		p := &patches[i]
		if p.Type == PatchPlacement && p.RefNode == nil && p.RefFragmentEnd == nil {
			j := i + 1
			for j < len(patches) {
				q := &patches[j]
				if q.Type != PatchPlacement || q.Parent != p.Parent || q.RefNode != nil || q.RefFragmentEnd != nil {
					break
				}
				j++
			}
			if j-i > 1 {
				if err := r.applyAppendBatch(patches[i:j]); err != nil {
					return err
				}
				i = j
				continue
			}
		}
		if err := r.applyPatch(p); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (r *Root) validatePatch(idx int, p *Patch) error {
	switch p.Type {
	case PatchUpdate, PatchDeletion, PatchReplace, PatchMove:
		if p.Target == nil {
			return fmt.Errorf("engine: patch %d (%s) has no target", idx, p.Type)
		}
		if r.nodeMap[p.Target.Id] != p.Target {
			return fmt.Errorf("engine: patch %d (%s) targets unknown node %d", idx, p.Type, p.Target.Id)
		}
		if p.Parent != nil && childIndexById(p.Parent.Children, p.Target.Id) < 0 {
			return fmt.Errorf("engine: patch %d (%s) target %d is not a child of parent %d", idx, p.Type, p.Target.Id, p.Parent.Id)
		}
		if p.Parent == nil && r.Tree != p.Target {
			return fmt.Errorf("engine: patch %d (%s) target %d is not the mounted root", idx, p.Type, p.Target.Id)
		}
	case PatchPlacement:
		if p.New == nil {
			return fmt.Errorf("engine: patch %d (placement) has no new node", idx)
		}
		if p.Parent == nil {
			return fmt.Errorf("engine: patch %d (placement) at root position", idx)
		}
	}
	return nil
}

// containerOf returns the real backend element a node's children attach
// under; nil parent means the session root container.
func (r *Root) containerOf(parent *TreeNode) dom.Node {
	if parent == nil {
		return r.container
	}
	return parent.container
}

func resolveRefDom(p *Patch) dom.Node {
	if p.RefNode != nil {
		return p.RefNode.firstDomRoot()
	}
	if p.RefFragmentEnd != nil {
		return p.RefFragmentEnd.Dom
	}
	return nil
}

// setDeferredContainers fixes up fragment back-references after a subtree
// built detached gets attached under a live container.
func setDeferredContainers(n *TreeNode, container dom.Node) {
	if !n.fragment {
		return
	}
	n.container = container
	for _, child := range n.Children {
		setDeferredContainers(child, container)
	}
}

func (r *Root) applyPatch(p *Patch) error {
	switch p.Type {
	case PatchUpdate:
		return r.applyUpdate(p)
	case PatchPlacement:
		return r.applyPlacement(p)
	case PatchDeletion:
		return r.applyDeletion(p)
	case PatchReplace:
		return r.applyReplace(p)
	case PatchMove:
		return r.applyMove(p)
	}
	return fmt.Errorf("engine: unknown patch type %d", p.Type)
}

func (r *Root) applyUpdate(p *Patch) error {
	target := p.Target
	if target.Dom.NodeKind() == dom.KindElement {
		for _, attr := range p.SetAttrs {
			r.Doc.SetAttribute(target.Dom, attr.Name, attr.Val)
		}
		for _, name := range p.RemoveAttrs {
			r.Doc.RemoveAttribute(target.Dom, name)
		}
	}
	if p.SetText != nil && target.Dom.NodeKind() == dom.KindText {
		if err := r.Doc.SetNodeValue(target.Dom, *p.SetText); err != nil {
			return err
		}
		target.Elem.Text = *p.SetText
	}
	return nil
}

func (r *Root) insertRoots(container dom.Node, roots []dom.Node, refDom dom.Node) error {
	if refDom == nil {
		return r.Doc.AppendChildren(container, roots)
	}
	for _, root := range roots {
		if err := r.Doc.InsertBefore(container, root, refDom); err != nil {
			return err
		}
	}
	return nil
}

// insertIndex resolves where in the parent's child list the subtree lands:
// immediately before the reference sibling, or at the end.
func insertIndex(parent *TreeNode, p *Patch) int {
	if p.RefNode != nil {
		if k := childIndexById(parent.Children, p.RefNode.Id); k >= 0 {
			return k
		}
	}
	return len(parent.Children)
}

func (r *Root) applyPlacement(p *Patch) error {
	container := r.containerOf(p.Parent)
	if container == nil {
		return fmt.Errorf("engine: placement under node %d with no container", p.Parent.Id)
	}
	if err := r.insertRoots(container, p.New.domRoots(), resolveRefDom(p)); err != nil {
		return err
	}
	setDeferredContainers(p.New, container)
	p.Parent.Children = insertChildAt(p.Parent.Children, insertIndex(p.Parent, p), p.New)
	return nil
}

func (r *Root) applyAppendBatch(batch []Patch) error {
	parent := batch[0].Parent
	container := r.containerOf(parent)
	if container == nil {
		return fmt.Errorf("engine: placement under node %d with no container", parent.Id)
	}
	var roots []dom.Node
	for i := range batch {
		roots = append(roots, batch[i].New.domRoots()...)
	}
	if err := r.Doc.AppendChildren(container, roots); err != nil {
		return err
	}
	for i := range batch {
		setDeferredContainers(batch[i].New, container)
		parent.Children = append(parent.Children, batch[i].New)
	}
	return nil
}

func (r *Root) applyDeletion(p *Patch) error {
	container := r.containerOf(p.Parent)
	for _, root := range p.Target.domRoots() {
		if err := r.Doc.RemoveChild(container, root); err != nil {
			return err
		}
	}
	if p.Parent != nil {
		if idx := childIndexById(p.Parent.Children, p.Target.Id); idx >= 0 {
			p.Parent.Children = removeChildAt(p.Parent.Children, idx)
		}
	}
	r.releaseNode(p.Target)
	return nil
}

func (r *Root) applyReplace(p *Patch) error {
	container := r.containerOf(p.Parent)
	oldRoots := p.Target.domRoots()
	newRoots := p.New.domRoots()
	if len(oldRoots) == 1 && len(newRoots) == 1 {
		if err := r.Doc.ReplaceChild(container, newRoots[0], oldRoots[0]); err != nil {
			return err
		}
	} else {
		if err := r.insertRoots(container, newRoots, oldRoots[0]); err != nil {
			return err
		}
		for _, root := range oldRoots {
			if err := r.Doc.RemoveChild(container, root); err != nil {
				return err
			}
		}
	}
	setDeferredContainers(p.New, container)
	if p.Parent == nil {
		r.Tree = p.New
	} else if idx := childIndexById(p.Parent.Children, p.Target.Id); idx >= 0 {
		p.Parent.Children[idx] = p.New
	}
	r.releaseNode(p.Target)
	return nil
}

func (r *Root) applyMove(p *Patch) error {
	container := r.containerOf(p.Parent)
	refDom := resolveRefDom(p)
	for _, root := range p.Target.domRoots() {
		var err error
		if refDom == nil {
			err = r.Doc.AppendChild(container, root)
		} else {
			err = r.Doc.InsertBefore(container, root, refDom)
		}
		if err != nil {
			return err
		}
	}
	if p.Parent != nil {
		if idx := childIndexById(p.Parent.Children, p.Target.Id); idx >= 0 {
			p.Parent.Children = removeChildAt(p.Parent.Children, idx)
		}
		p.Parent.Children = insertChildAt(p.Parent.Children, insertIndex(p.Parent, p), p.Target)
	}
	return nil
}
