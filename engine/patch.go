// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/wavetermdev/riptide/vdom"
)

// PatchType discriminates the closed set of mutations a diff can produce.
type PatchType int

const (
	PatchUpdate PatchType = iota
	PatchPlacement
	PatchDeletion
	PatchReplace
	PatchMove
)

func (t PatchType) String() string {
	switch t {
	case PatchUpdate:
		return "update"
	case PatchPlacement:
		return "placement"
	case PatchDeletion:
		return "deletion"
	case PatchReplace:
		return "replace"
	case PatchMove:
		return "move"
	}
	return "invalid"
}

// Patch is one required mutation. Patches are generated in a deterministic
// order and must be applied in that exact order: later patches' reference
// anchors assume earlier patches in the batch have executed.
//
// Position patches carry their anchor as a stable node identity, resolved
// to a backend reference at application time, never as a position captured
// before the batch runs. A nil Parent targets the session root position.
type Patch struct {
	Type   PatchType
	Target *TreeNode // Update/Deletion/Move target; the old node for Replace
	New    *TreeNode // fully built subtree for Placement/Replace
	Parent *TreeNode

	// RefNode is the sibling the subtree is inserted before. When nil and
	// RefFragmentEnd is nil, the subtree is appended at the end of the
	// parent's backend children.
	RefNode *TreeNode
	// RefFragmentEnd anchors an append inside a fragment: the insertion
	// goes before the fragment's end marker rather than the container end.
	RefFragmentEnd *TreeNode
	// Index is the descriptor-order child position, clamped on application.
	Index int

	SetAttrs    []vdom.Attr
	RemoveAttrs []string
	SetText     *string
}
