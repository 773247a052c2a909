// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/wavetermdev/riptide/dom"
	"github.com/wavetermdev/riptide/util"
	"github.com/wavetermdev/riptide/vdom"
)

// maxResolveDepth bounds function-component resolution; a component chain
// deeper than this is treated as a resolution cycle.
const maxResolveDepth = 100

const ClientIdAttr = "data-client-id"
const ClientNameAttr = "data-client-name"

func callComponentFn(fn vdom.ComponentFn, props any) (elem *vdom.Elem, err error) {
	defer func() {
		if panicErr := util.PanicHandler("resolve component", recover()); panicErr != nil {
			err = panicErr
		}
	}()
	if fn == nil {
		return nil, fmt.Errorf("engine: component function is nil")
	}
	return fn(props), nil
}

// resolveElem invokes function components until a concrete descriptor is
// produced. The wrapper's key wins over the resolved descriptor's key; if
// the wrapper has none, the resolved key is used.
func (r *Root) resolveElem(elem *vdom.Elem) (*vdom.Elem, error) {
	if elem.IsNone() {
		noneElem := vdom.None()
		return &noneElem, nil
	}
	key := elem.Key()
	cur := elem
	for depth := 0; cur.Kind == vdom.KindComponent; depth++ {
		if depth >= maxResolveDepth {
			return nil, fmt.Errorf("engine: component resolution exceeded depth %d (cycle?)", maxResolveDepth)
		}
		next, err := callComponentFn(cur.Fn, cur.Props)
		if err != nil {
			return nil, err
		}
		if next.IsNone() {
			noneElem := vdom.None()
			next = &noneElem
		}
		if key == "" {
			key = next.Key()
		}
		cur = next
	}
	if key != "" && cur.Key() == "" {
		keyed := *cur
		keyed.Attrs = append([]vdom.Attr(nil), cur.Attrs...)
		keyed.WithKey(key)
		return &keyed, nil
	}
	return cur, nil
}

// mountNode builds the TreeNode subtree for a resolved descriptor. When
// attach is set the subtree's backend roots are appended under container;
// otherwise the subtree is built detached (the Placement/Replace path) and
// container may be nil.
func (r *Root) mountNode(elem *vdom.Elem, container dom.Node, attach bool) (*TreeNode, error) {
	node := &TreeNode{
		Id:   r.newNodeId(),
		Elem: *elem,
		Key:  elem.Key(),
	}
	switch elem.Kind {
	case vdom.KindNone:
		// zero-width marker keeps position patches uniform
		node.Dom = r.Doc.CreateTextNode("")
	case vdom.KindText:
		if elem.Escaping == vdom.EscapeNone {
			tmplNode, err := r.Doc.CreateElementFromTemplate(elem.Text)
			if err != nil {
				return nil, err
			}
			node.Dom = tmplNode
		} else {
			node.Dom = r.Doc.CreateTextNode(elem.Text)
		}
	case vdom.KindReactiveText:
		node.Dom = r.Doc.CreateTextNode(elem.Text)
		r.registerSignalBinding(elem.SignalId, node)
	case vdom.KindClient:
		host := r.Doc.CreateElement(vdom.ClientHostTag)
		r.Doc.SetAttribute(host, ClientIdAttr, elem.ClientId)
		r.Doc.SetAttribute(host, ClientNameAttr, elem.ClientName)
		r.Doc.SetProperty(host, NodeIdProperty, node.Id)
		node.Dom = host
		node.container = host
	case vdom.KindElement:
		if elem.IsFragment() {
			// zero-width end marker; children precede it in the container
			node.fragment = true
			node.Dom = r.Doc.CreateTextNode("")
			node.container = container
		} else {
			el := r.Doc.CreateElement(elem.Tag)
			for _, attr := range elem.Attrs {
				if vdom.IsReservedAttr(attr.Name) {
					continue
				}
				r.Doc.SetAttribute(el, attr.Name, attr.Val)
			}
			r.Doc.SetProperty(el, NodeIdProperty, node.Id)
			node.Dom = el
			node.container = el
		}
	default:
		return nil, fmt.Errorf("engine: cannot mount unresolved %s descriptor", elem.Kind)
	}

	r.registerNode(node)
	if attach && container != nil && !node.fragment {
		if err := r.Doc.AppendChild(container, node.Dom); err != nil {
			return nil, err
		}
	}

	if elem.Kind == vdom.KindElement {
		if len(elem.Children) > 0 {
			node.Children = make([]*TreeNode, 0, len(elem.Children))
		}
		// fragment children attach to the ancestor, not the marker
		childContainer := node.container
		childAttach := true
		if node.fragment {
			childAttach = attach
		}
		for i := range elem.Children {
			resolved, err := r.resolveElem(&elem.Children[i])
			if err != nil {
				return nil, err
			}
			child, err := r.mountNode(resolved, childContainer, childAttach)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}
	if attach && container != nil && node.fragment {
		// end marker goes in after the children
		if err := r.Doc.AppendChild(container, node.Dom); err != nil {
			return nil, err
		}
	}
	return node, nil
}
