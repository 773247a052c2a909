// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

import (
	"testing"
)

func TestHFlattensParts(t *testing.T) {
	elem := H("div", A("class", "box"),
		"text",
		H("span", nil, "child"),
		[]any{"a", "b"},
		nil,
		false,
		true,
		42,
	)
	if elem.Tag != "div" || elem.Kind != KindElement {
		t.Fatalf("unexpected elem: %+v", elem)
	}
	wantTexts := []string{"text", "", "a", "b", "true", "42"}
	if len(elem.Children) != len(wantTexts) {
		t.Fatalf("expected %d children, got %d", len(wantTexts), len(elem.Children))
	}
	if elem.Children[1].Tag != "span" {
		t.Fatalf("expected span child, got %+v", elem.Children[1])
	}
	for i, want := range wantTexts {
		if i == 1 {
			continue
		}
		if elem.Children[i].Kind != KindText || elem.Children[i].Text != want {
			t.Fatalf("child %d: got %+v, want text %q", i, elem.Children[i], want)
		}
	}
}

func TestAOddPairsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for odd pair count")
		}
	}()
	A("only-name")
}

func TestKeyHelpers(t *testing.T) {
	elem := H("div", A("key", "k1", "class", "x"))
	if elem.Key() != "k1" {
		t.Fatalf("unexpected key: %q", elem.Key())
	}
	elem.WithKey("k2")
	if elem.Key() != "k2" {
		t.Fatalf("key not replaced: %q", elem.Key())
	}
	unkeyed := H("div", nil)
	if unkeyed.Key() != "" {
		t.Fatalf("expected empty key")
	}
	unkeyed.WithKey("k3")
	if unkeyed.Key() != "k3" {
		t.Fatalf("key not added: %q", unkeyed.Key())
	}
	var nilElem *Elem
	if nilElem.Key() != "" {
		t.Fatalf("nil elem key should be empty")
	}
}

func TestIsNoneAndFragment(t *testing.T) {
	var nilElem *Elem
	if !nilElem.IsNone() {
		t.Fatalf("nil elem should be none")
	}
	noneElem := None()
	if !noneElem.IsNone() {
		t.Fatalf("none elem should be none")
	}
	frag := Fragment(H("div", nil))
	if !frag.IsFragment() {
		t.Fatalf("expected fragment")
	}
	if len(frag.Children) != 1 {
		t.Fatalf("fragment lost its children")
	}
	if H("div", nil).IsFragment() {
		t.Fatalf("div is not a fragment")
	}
}

func TestReservedAttrs(t *testing.T) {
	if !IsEventAttr("onClick") || !IsEventAttr("onkeydown") {
		t.Fatalf("event attrs not recognized")
	}
	if IsEventAttr("on") || IsEventAttr("class") {
		t.Fatalf("non-event attr recognized as event")
	}
	if !IsReservedAttr("key") || !IsReservedAttr("onClick") {
		t.Fatalf("reserved attrs not recognized")
	}
	if IsReservedAttr("class") {
		t.Fatalf("class should not be reserved")
	}
}

func TestClasses(t *testing.T) {
	got := Classes("a", "", nil, "b", 3, "c")
	if got != "a b c" {
		t.Fatalf("unexpected classes: %q", got)
	}
}

func TestIfTernaryForEach(t *testing.T) {
	if If(false, "x") != nil {
		t.Fatalf("If(false) should be nil")
	}
	if If(true, "x") != "x" {
		t.Fatalf("If(true) should pass through")
	}
	if Ternary(true, 1, 2) != 1 || Ternary(false, 1, 2) != 2 {
		t.Fatalf("ternary broken")
	}
	parts := ForEach([]string{"a", "b"}, func(s string, idx int) any {
		return H("li", nil, s)
	})
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	list := H("ul", nil, parts)
	if len(list.Children) != 2 || list.Children[0].Tag != "li" {
		t.Fatalf("foreach parts not flattened: %+v", list.Children)
	}
}

func TestRawElem(t *testing.T) {
	raw := RawElem("<b>x</b>")
	if raw.Kind != KindText || raw.Escaping != EscapeNone {
		t.Fatalf("unexpected raw elem: %+v", raw)
	}
	plain := TextElem("x")
	if plain.Escaping != EscapeDefault {
		t.Fatalf("plain text should default-escape")
	}
}

func TestParseBasic(t *testing.T) {
	elem, err := Parse(`<div class="box"><span>hi</span></div>`, nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if elem.Tag != "div" {
		t.Fatalf("unexpected tag: %q", elem.Tag)
	}
	if val, _ := elem.AttrVal("class"); val != "box" {
		t.Fatalf("unexpected class: %q", val)
	}
	if len(elem.Children) != 1 || elem.Children[0].Tag != "span" {
		t.Fatalf("unexpected children: %+v", elem.Children)
	}
	if elem.Children[0].Children[0].Text != "hi" {
		t.Fatalf("unexpected text: %+v", elem.Children[0].Children)
	}
}

func TestParseMultiRootReturnsFragment(t *testing.T) {
	elem, err := Parse(`<div>a</div><div>b</div>`, nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !elem.IsFragment() {
		t.Fatalf("expected fragment, got %+v", elem)
	}
	if len(elem.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(elem.Children))
	}
}

func TestParseAttrParams(t *testing.T) {
	elem, err := Parse(`<div class="#param:cls" data-n="#param:n"></div>`, map[string]any{
		"cls": "box",
		"n":   5,
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if val, _ := elem.AttrVal("class"); val != "box" {
		t.Fatalf("string param not bound: %q", val)
	}
	if val, _ := elem.AttrVal("data-n"); val != "5" {
		t.Fatalf("non-string param not bound: %q", val)
	}
}

func TestParseBindParam(t *testing.T) {
	elem, err := Parse(`<div><bindparam key="content"/></div>`, map[string]any{
		"content": H("span", nil, "injected"),
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(elem.Children) != 1 || elem.Children[0].Tag != "span" {
		t.Fatalf("bindparam not substituted: %+v", elem.Children)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(`<div><span></div>`, nil); err == nil {
		t.Fatalf("expected mismatched tag error")
	}
	if _, err := Parse(`</div>`, nil); err == nil {
		t.Fatalf("expected stray end tag error")
	}
	if _, err := Parse(`<!DOCTYPE html><div></div>`, nil); err == nil {
		t.Fatalf("expected doctype error")
	}
	if _, err := Parse(`<div><bindparam key="x"></bindparam></div>`, nil); err == nil {
		t.Fatalf("expected non-self-closing bindparam error")
	}
}

func TestParseWhitespaceHandling(t *testing.T) {
	elem, err := Parse(`
		<div>
			<span>one</span>
			<span>two</span>
		</div>
	`, nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if elem.Tag != "div" || len(elem.Children) != 2 {
		t.Fatalf("whitespace not collapsed: %+v", elem)
	}
}
