// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"strings"
	"testing"

	"github.com/wavetermdev/riptide/dom"
	"github.com/wavetermdev/riptide/vdom"
)

func setupRoot(t *testing.T, elem *vdom.Elem) (*Root, *dom.HeadlessNode) {
	t.Helper()
	doc := dom.NewHeadlessDocument()
	body := doc.CreateElement("body").(*dom.HeadlessNode)
	root := MakeRoot(doc)
	root.SeedIds(1)
	if err := root.Mount(elem, body); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	return root, body
}

func rerender(t *testing.T, root *Root, elem *vdom.Elem) []Patch {
	t.Helper()
	patches, err := root.Diff(elem)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if err := root.Apply(patches); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return patches
}

func countPatches(patches []Patch, ptype PatchType) int {
	count := 0
	for _, p := range patches {
		if p.Type == ptype {
			count++
		}
	}
	return count
}

func TestMountSimple(t *testing.T) {
	root, body := setupRoot(t, vdom.H("div", vdom.A("class", "box"), "hello"))
	got := dom.InnerHTML(body)
	if got != `<div class="box">hello</div>` {
		t.Fatalf("unexpected html: %s", got)
	}
	divNode := body.Children[0]
	id, ok := divNode.Prop(NodeIdProperty).(uint64)
	if !ok || id == 0 {
		t.Fatalf("expected node id property, got %v", divNode.Prop(NodeIdProperty))
	}
	node := root.LookupNode(id)
	if node == nil || node.Elem.Tag != "div" {
		t.Fatalf("lookup by id failed: %v", node)
	}
}

func TestMountErrors(t *testing.T) {
	doc := dom.NewHeadlessDocument()
	root := MakeRoot(doc)
	if err := root.Mount(vdom.H("div", nil), nil); err == nil {
		t.Fatalf("expected error mounting without container")
	}
	if _, err := root.Diff(vdom.H("div", nil)); err == nil {
		t.Fatalf("expected error diffing before mount")
	}
	body := doc.CreateElement("body")
	if err := root.Mount(vdom.H("div", nil), body); err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	if err := root.Mount(vdom.H("div", nil), body); err == nil {
		t.Fatalf("expected error on second mount")
	}
}

func TestDiffIdempotent(t *testing.T) {
	elem := vdom.H("div", vdom.A("class", "box"),
		vdom.H("span", vdom.A("key", "a"), "one"),
		vdom.H("span", vdom.A("key", "b"), "two"),
	)
	root, _ := setupRoot(t, elem)
	patches, err := root.Diff(elem)
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if len(patches) != 0 {
		t.Fatalf("identical tree produced %d patches: %v", len(patches), patches)
	}
}

func TestRootReplace(t *testing.T) {
	root, body := setupRoot(t, vdom.H("div", nil, "old"))
	oldId := root.Tree.Id
	patches := rerender(t, root, vdom.H("span", nil, "new"))
	if len(patches) != 1 || patches[0].Type != PatchReplace {
		t.Fatalf("expected single replace, got %v", patches)
	}
	if patches[0].Parent != nil {
		t.Fatalf("root replace should have nil parent")
	}
	if got := dom.InnerHTML(body); got != "<span>new</span>" {
		t.Fatalf("unexpected html: %s", got)
	}
	if root.LookupNode(oldId) != nil {
		t.Fatalf("replaced node %d still registered", oldId)
	}
	if root.Tree.Elem.Tag != "span" {
		t.Fatalf("tree root not swapped: %s", root.Tree.Elem.Tag)
	}
}

func TestComponentResolution(t *testing.T) {
	leaf := func(props any) *vdom.Elem {
		text, _ := props.(string)
		return vdom.H("div", nil, text)
	}
	wrapper := func(props any) *vdom.Elem {
		return vdom.Comp(leaf, props)
	}
	root, body := setupRoot(t, vdom.Comp(wrapper, "hi").WithKey("w"))
	if got := dom.InnerHTML(body); got != "<div>hi</div>" {
		t.Fatalf("unexpected html: %s", got)
	}
	if root.Tree.Key != "w" {
		t.Fatalf("wrapper key lost: %q", root.Tree.Key)
	}
}

func TestComponentDepthLimit(t *testing.T) {
	var loop vdom.ComponentFn
	loop = func(props any) *vdom.Elem {
		return vdom.Comp(loop, nil)
	}
	doc := dom.NewHeadlessDocument()
	root := MakeRoot(doc)
	err := root.Mount(vdom.Comp(loop, nil), doc.CreateElement("body"))
	if err == nil || !strings.Contains(err.Error(), "depth") {
		t.Fatalf("expected depth error, got %v", err)
	}
}

func TestComponentPanicRecovered(t *testing.T) {
	boom := func(props any) *vdom.Elem {
		panic("boom")
	}
	doc := dom.NewHeadlessDocument()
	root := MakeRoot(doc)
	err := root.Mount(vdom.Comp(boom, nil), doc.CreateElement("body"))
	if err == nil || !strings.Contains(err.Error(), "panic") {
		t.Fatalf("expected recovered panic error, got %v", err)
	}
}

func TestComponentNilFn(t *testing.T) {
	doc := dom.NewHeadlessDocument()
	root := MakeRoot(doc)
	err := root.Mount(&vdom.Elem{Kind: vdom.KindComponent}, doc.CreateElement("body"))
	if err == nil {
		t.Fatalf("expected error for nil component fn")
	}
}

func TestSignalText(t *testing.T) {
	root, body := setupRoot(t, vdom.H("div", nil, vdom.ReactiveText("sig:count", "0")))
	if n := root.BoundSignalCount("sig:count"); n != 1 {
		t.Fatalf("expected 1 bound node, got %d", n)
	}
	if err := root.SetSignalText("sig:count", "42"); err != nil {
		t.Fatalf("set signal text failed: %v", err)
	}
	if got := dom.InnerHTML(body); got != "<div>42</div>" {
		t.Fatalf("unexpected html: %s", got)
	}
	// the stored descriptor tracks the pushed text, so the next diff of the
	// same snapshot is empty
	patches, err := root.Diff(vdom.H("div", nil, vdom.ReactiveText("sig:count", "42")))
	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if len(patches) != 0 {
		t.Fatalf("expected no patches after signal sync, got %v", patches)
	}
	if err := root.SetSignalText("sig:missing", "x"); err == nil {
		t.Fatalf("expected error for unbound signal")
	}
	rerender(t, root, vdom.H("div", nil))
	if n := root.BoundSignalCount("sig:count"); n != 0 {
		t.Fatalf("binding survived deletion: %d", n)
	}
}

func TestSignalSnapshotDiff(t *testing.T) {
	root, body := setupRoot(t, vdom.H("div", nil, vdom.ReactiveText("sig", "1")))
	patches := rerender(t, root, vdom.H("div", nil, vdom.ReactiveText("sig", "2")))
	if len(patches) != 1 || patches[0].Type != PatchUpdate || patches[0].SetText == nil {
		t.Fatalf("expected one text update, got %v", patches)
	}
	if got := dom.InnerHTML(body); got != "<div>2</div>" {
		t.Fatalf("unexpected html: %s", got)
	}
}

func TestSeedIdsDeterministic(t *testing.T) {
	build := func() *vdom.Elem {
		return vdom.H("div", nil,
			vdom.H("span", nil, "a"),
			vdom.H("span", nil, "b"),
		)
	}
	var collect func(n *TreeNode, out *[]uint64)
	collect = func(n *TreeNode, out *[]uint64) {
		*out = append(*out, n.Id)
		for _, c := range n.Children {
			collect(c, out)
		}
	}
	root1, _ := setupRoot(t, build())
	root2, _ := setupRoot(t, build())
	var ids1, ids2 []uint64
	collect(root1.Tree, &ids1)
	collect(root2.Tree, &ids2)
	if len(ids1) != len(ids2) {
		t.Fatalf("id count mismatch: %d vs %d", len(ids1), len(ids2))
	}
	for i := range ids1 {
		if ids1[i] != ids2[i] {
			t.Fatalf("id sequence diverged at %d: %d vs %d", i, ids1[i], ids2[i])
		}
	}
}

func TestDeinit(t *testing.T) {
	root, body := setupRoot(t, vdom.H("div", nil, vdom.H("span", nil, "x")))
	rootId := root.Tree.Id
	if err := root.Deinit(); err != nil {
		t.Fatalf("deinit failed: %v", err)
	}
	if len(body.Children) != 0 {
		t.Fatalf("backend not emptied: %s", dom.InnerHTML(body))
	}
	if root.LookupNode(rootId) != nil {
		t.Fatalf("root node still registered after deinit")
	}
	if err := root.Deinit(); err != nil {
		t.Fatalf("second deinit should be a no-op: %v", err)
	}
}

func TestUpdateComponents(t *testing.T) {
	root, body := setupRoot(t, vdom.H("button", vdom.A("onClick", "increment"), "go"))
	before := dom.InnerHTML(body)
	err := root.UpdateComponents(vdom.H("button", vdom.A("onClick", "decrement"), "go"))
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got, ok := root.Tree.HandlerAttr("onClick"); !ok || got != "decrement" {
		t.Fatalf("handler not refreshed: %q %v", got, ok)
	}
	if after := dom.InnerHTML(body); after != before {
		t.Fatalf("backend changed during descriptor update: %s vs %s", before, after)
	}
}

func TestUpdateComponentsStructureMismatch(t *testing.T) {
	root, _ := setupRoot(t, vdom.H("div", nil, "a"))
	if err := root.UpdateComponents(vdom.H("span", nil, "a")); err == nil {
		t.Fatalf("expected shape mismatch error")
	}
	if err := root.UpdateComponents(vdom.H("div", nil, "a", "b")); err == nil {
		t.Fatalf("expected child count mismatch error")
	}
}

func TestPassGuardCrossGoroutine(t *testing.T) {
	var guard passGuard
	guard.enter()
	defer guard.exit()
	recovered := make(chan any)
	go func() {
		defer func() {
			recovered <- recover()
		}()
		guard.enter()
	}()
	if r := <-recovered; r == nil {
		t.Fatalf("expected panic on cross-goroutine entry")
	}
}

func TestPassGuardReentrant(t *testing.T) {
	var guard passGuard
	guard.enter()
	guard.enter()
	guard.exit()
	guard.exit()
	guard.enter()
	guard.exit()
}

func TestRenderMountsThenReconciles(t *testing.T) {
	doc := dom.NewHeadlessDocument()
	body := doc.CreateElement("body").(*dom.HeadlessNode)
	root := MakeRoot(doc)
	if err := root.Render(vdom.H("div", nil, "1"), body); err != nil {
		t.Fatalf("initial render failed: %v", err)
	}
	if err := root.Render(vdom.H("div", nil, "2"), body); err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if got := dom.InnerHTML(body); got != "<div>2</div>" {
		t.Fatalf("unexpected html: %s", got)
	}
}
