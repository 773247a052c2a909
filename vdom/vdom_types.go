// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

// FragmentTag is a pseudo element tag: a fragment owns no backend node and
// its children attach to the nearest real ancestor element.
const FragmentTag = "#fragment"

// ClientHostTag is the tag used for the inert host element that stands in
// for a client-hydrated subtree. The reconciler never diffs across it.
const ClientHostTag = "riptide-client"

// KeyAttrName is the reserved attribute holding the reconciliation key.
// It is never copied to the backend and never diffed as a plain attribute.
const KeyAttrName = "key"

// EventAttrPrefix marks event-handler attributes (onClick, onInput, ...).
// These are handled via id-based event delegation, not as plain attributes.
const EventAttrPrefix = "on"

// ElemKind discriminates the closed set of descriptor variants.
type ElemKind int

const (
	KindNone ElemKind = iota
	KindElement
	KindText
	KindComponent
	KindClient
	KindReactiveText
)

func (k ElemKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComponent:
		return "component"
	case KindClient:
		return "client"
	case KindReactiveText:
		return "reactive-text"
	}
	return "invalid"
}

// EscapeMode controls how text content reaches the backend.
type EscapeMode int

const (
	// EscapeDefault renders text as a plain text node.
	EscapeDefault EscapeMode = iota
	// EscapeNone parses the text as trusted raw markup into a real element.
	EscapeNone
)

// Attr is one element attribute. Attributes keep their declaration order.
// Boolean attributes carry an empty Val.
type Attr struct {
	Name string `json:"name"`
	Val  string `json:"val,omitempty"`
}

// ComponentFn is a deferred function component. It is invoked with its props
// to obtain the real output, repeatedly until a non-component descriptor is
// produced.
type ComponentFn func(props any) *Elem

// Elem is one render unit: an immutable declarative description produced
// fresh each render pass. Kind selects which payload fields are meaningful.
type Elem struct {
	Kind ElemKind `json:"kind"`

	// KindElement
	Tag      string     `json:"tag,omitempty"`
	Attrs    []Attr     `json:"attrs,omitempty"`
	Children []Elem     `json:"children,omitempty"`
	Escaping EscapeMode `json:"-"`

	// KindText, and the current text of a KindReactiveText
	Text string `json:"text,omitempty"`

	// KindComponent
	Fn    ComponentFn `json:"-"`
	Props any         `json:"-"`

	// KindClient
	ClientId   string `json:"clientid,omitempty"`
	ClientName string `json:"clientname,omitempty"`

	// KindReactiveText
	SignalId string `json:"signalid,omitempty"`
}

// IsFragment reports whether e is the fragment pseudo element.
func (e *Elem) IsFragment() bool {
	return e != nil && e.Kind == KindElement && e.Tag == FragmentTag
}

// IsNone reports whether e renders nothing (nil descriptors count).
func (e *Elem) IsNone() bool {
	return e == nil || e.Kind == KindNone
}

// Key returns the reconciliation key from the reserved key attribute, or ""
// if the element carries none.
func (e *Elem) Key() string {
	if e == nil {
		return ""
	}
	for _, attr := range e.Attrs {
		if attr.Name == KeyAttrName {
			return attr.Val
		}
	}
	return ""
}

// WithKey sets the reserved key attribute, replacing any existing one.
func (e *Elem) WithKey(key string) *Elem {
	if e == nil {
		return nil
	}
	for i, attr := range e.Attrs {
		if attr.Name == KeyAttrName {
			e.Attrs[i].Val = key
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: KeyAttrName, Val: key})
	return e
}

// AttrVal returns the value of the named attribute and whether it is present.
func (e *Elem) AttrVal(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, attr := range e.Attrs {
		if attr.Name == name {
			return attr.Val, true
		}
	}
	return "", false
}

// IsEventAttr reports whether name is a reserved event-handler attribute.
func IsEventAttr(name string) bool {
	return len(name) > len(EventAttrPrefix) && name[:len(EventAttrPrefix)] == EventAttrPrefix
}

// IsReservedAttr reports whether name is excluded from backend attribute
// copying and from attribute diffing.
func IsReservedAttr(name string) bool {
	return name == KeyAttrName || IsEventAttr(name)
}
