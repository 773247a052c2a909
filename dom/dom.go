// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package dom defines the retained-node backend boundary consumed by the
// reconciliation engine, and a headless in-memory implementation of it.
// Backends materialize visible structure (browser DOM, headless DOM, string
// builder); the engine only drives them through this interface.
package dom

import "errors"

// Container operations on a text node indicate a reconciler or adapter bug,
// not a recoverable runtime condition. Each operation fails with its own
// sentinel so the failing mutation is identifiable from the error alone.
var (
	ErrAppendInTextNode  = errors.New("dom: appendChild on a text node")
	ErrInsertInTextNode  = errors.New("dom: insertBefore on a text node")
	ErrRemoveInTextNode  = errors.New("dom: removeChild on a text node")
	ErrReplaceInTextNode = errors.New("dom: replaceChild on a text node")
	ErrNotAChild         = errors.New("dom: node is not a child of parent")
	ErrNotATextNode      = errors.New("dom: setNodeValue on a non-text node")
)

// NodeKind discriminates element nodes from text nodes.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindText
)

// Node is an opaque backend node handle. The engine holds Nodes but never
// inspects them beyond their kind; all mutation goes through a Document.
type Node interface {
	NodeKind() NodeKind
}

// Document is the abstract retained-node backend.
type Document interface {
	CreateElement(tag string) Node
	CreateTextNode(text string) Node
	// CreateElementFromTemplate parses trusted raw markup into a single
	// element node (the raw-HTML injection path).
	CreateElementFromTemplate(markup string) (Node, error)

	AppendChild(parent Node, node Node) error
	// AppendChildren appends a batch of nodes in order with one call; the
	// patch applier coalesces consecutive appends into this.
	AppendChildren(parent Node, nodes []Node) error
	InsertBefore(parent Node, node Node, ref Node) error
	RemoveChild(parent Node, node Node) error
	ReplaceChild(parent Node, newNode Node, oldNode Node) error

	SetAttribute(node Node, name string, value string)
	RemoveAttribute(node Node, name string)
	// SetProperty stamps a non-attribute property on a node (used for the
	// reconciliation id consumed by event delegation).
	SetProperty(node Node, key string, value any)
	SetNodeValue(textNode Node, value string) error
}
