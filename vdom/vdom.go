// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

import (
	"fmt"
	"reflect"
	"strings"
)

// construction helpers; part values = nil | string | bool | Elem | *Elem | slices of those

func TextElem(text string) Elem {
	return Elem{Kind: KindText, Text: text}
}

// RawElem marks text as trusted raw markup. Mounting parses it into a real
// element via the backend template path instead of creating a text node.
func RawElem(markup string) Elem {
	return Elem{Kind: KindText, Text: markup, Escaping: EscapeNone}
}

func None() Elem {
	return Elem{Kind: KindNone}
}

// H builds an element descriptor. Attrs keep their declaration order; parts
// are flattened into children.
func H(tag string, attrs []Attr, parts ...any) *Elem {
	rtn := &Elem{Kind: KindElement, Tag: tag, Attrs: attrs}
	for _, part := range parts {
		rtn.Children = append(rtn.Children, PartToElems(part)...)
	}
	return rtn
}

// Fragment builds the no-backend-node pseudo element; children attach to the
// nearest real ancestor.
func Fragment(parts ...any) *Elem {
	return H(FragmentTag, nil, parts...)
}

// Comp builds a deferred function component descriptor.
func Comp(fn ComponentFn, props any) *Elem {
	return &Elem{Kind: KindComponent, Fn: fn, Props: props}
}

// Client builds a client-hydration placeholder descriptor.
func Client(id string, name string) *Elem {
	return &Elem{Kind: KindClient, ClientId: id, ClientName: name}
}

// ReactiveText builds a text descriptor bound to an external signal id.
func ReactiveText(signalId string, currentText string) *Elem {
	return &Elem{Kind: KindReactiveText, SignalId: signalId, Text: currentText}
}

// A builds an attribute list from alternating name/value pairs.
func A(pairs ...string) []Attr {
	if len(pairs)%2 != 0 {
		panic("vdom.A requires an even number of arguments")
	}
	attrs := make([]Attr, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		attrs = append(attrs, Attr{Name: pairs[i], Val: pairs[i+1]})
	}
	return attrs
}

func If(cond bool, part any) any {
	if cond {
		return part
	}
	return nil
}

func Ternary[T any](cond bool, trueRtn T, falseRtn T) T {
	if cond {
		return trueRtn
	}
	return falseRtn
}

func ForEach[T any](items []T, fn func(T, int) any) []any {
	elems := make([]any, 0, len(items))
	for idx, item := range items {
		elems = append(elems, fn(item, idx))
	}
	return elems
}

// Classes joins non-empty string classes with spaces, ignoring nil and
// non-string values.
func Classes(classes ...any) string {
	var parts []string
	for _, class := range classes {
		if c, ok := class.(string); ok && c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// PartToElems flattens one child part into descriptors.
func PartToElems(part any) []Elem {
	if part == nil {
		return nil
	}
	switch partTyped := part.(type) {
	case string:
		return []Elem{TextElem(partTyped)}
	case bool:
		// matches react
		if partTyped {
			return []Elem{TextElem("true")}
		}
		return nil
	case Elem:
		return []Elem{partTyped}
	case *Elem:
		if partTyped == nil {
			return nil
		}
		return []Elem{*partTyped}
	default:
		partVal := reflect.ValueOf(part)
		if partVal.Kind() == reflect.Slice {
			var rtn []Elem
			for i := 0; i < partVal.Len(); i++ {
				rtn = append(rtn, PartToElems(partVal.Index(i).Interface())...)
			}
			return rtn
		}
		return []Elem{TextElem(fmt.Sprint(part))}
	}
}
