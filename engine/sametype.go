// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import "github.com/wavetermdev/riptide/vdom"

// sameShape is the update-vs-replace gate: it compares two resolved
// descriptors structurally, ignoring content. Elements must share a tag
// (fragment counts as its own tag); reactive text must share a signal id.
// Function components are resolved before ever reaching this test.
func sameShape(a *vdom.Elem, b *vdom.Elem) bool {
	if a.IsNone() || b.IsNone() {
		return a.IsNone() && b.IsNone()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case vdom.KindElement:
		return a.Tag == b.Tag
	case vdom.KindText:
		return a.Escaping == b.Escaping
	case vdom.KindReactiveText:
		return a.SignalId == b.SignalId
	case vdom.KindClient:
		return true
	}
	return false
}
