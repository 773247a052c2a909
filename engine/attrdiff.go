// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import "github.com/wavetermdev/riptide/vdom"

// diffAttrs computes the set/remove operations that move an element's
// attributes from old to new. Reserved attributes (key, on*) never reach
// the backend and are skipped entirely. Sets are emitted in old-attribute
// order first, then new-only attributes in their declaration order.
func diffAttrs(oldAttrs []vdom.Attr, newAttrs []vdom.Attr) (sets []vdom.Attr, removes []string) {
	newByName := make(map[string]string, len(newAttrs))
	for _, attr := range newAttrs {
		if vdom.IsReservedAttr(attr.Name) {
			continue
		}
		newByName[attr.Name] = attr.Val
	}
	oldSeen := make(map[string]bool, len(oldAttrs))
	for _, attr := range oldAttrs {
		if vdom.IsReservedAttr(attr.Name) {
			continue
		}
		oldSeen[attr.Name] = true
		newVal, ok := newByName[attr.Name]
		if !ok {
			removes = append(removes, attr.Name)
			continue
		}
		if newVal != attr.Val {
			sets = append(sets, vdom.Attr{Name: attr.Name, Val: newVal})
		}
	}
	for _, attr := range newAttrs {
		if vdom.IsReservedAttr(attr.Name) || oldSeen[attr.Name] {
			continue
		}
		sets = append(sets, vdom.Attr{Name: attr.Name, Val: attr.Val})
	}
	return sets, removes
}
