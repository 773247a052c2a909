// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package dom

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/wavetermdev/htmltoken"
)

// voidTags never carry children or end tags when serialized.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HeadlessNode is an in-memory retained node. Attribute order is preserved
// so serialization is deterministic.
type HeadlessNode struct {
	Kind     NodeKind
	Tag      string
	Text     string
	Attrs    []Attr
	Props    map[string]any
	Children []*HeadlessNode
	Parent   *HeadlessNode
}

// Attr is one serialized attribute on a headless element.
type Attr struct {
	Name string
	Val  string
}

func (n *HeadlessNode) NodeKind() NodeKind {
	return n.Kind
}

// AttrVal returns the named attribute value and whether it is set.
func (n *HeadlessNode) AttrVal(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Prop returns the named property stamped via SetProperty.
func (n *HeadlessNode) Prop(key string) any {
	if n.Props == nil {
		return nil
	}
	return n.Props[key]
}

func (n *HeadlessNode) childIndex(child *HeadlessNode) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// HeadlessDocument is a Document backed by HeadlessNodes. It is the test and
// server-side-rendering backend.
type HeadlessDocument struct{}

func NewHeadlessDocument() *HeadlessDocument {
	return &HeadlessDocument{}
}

func (d *HeadlessDocument) CreateElement(tag string) Node {
	return &HeadlessNode{Kind: KindElement, Tag: tag}
}

func (d *HeadlessDocument) CreateTextNode(text string) Node {
	return &HeadlessNode{Kind: KindText, Text: text}
}

func (d *HeadlessDocument) CreateElementFromTemplate(markup string) (Node, error) {
	root, err := parseTemplate(markup)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("dom: template produced no element")
	}
	return root, nil
}

func asHeadless(n Node) *HeadlessNode {
	if n == nil {
		return nil
	}
	return n.(*HeadlessNode)
}

func (d *HeadlessDocument) AppendChild(parent Node, node Node) error {
	p := asHeadless(parent)
	if p.Kind != KindElement {
		return ErrAppendInTextNode
	}
	c := asHeadless(node)
	c.detach()
	c.Parent = p
	p.Children = append(p.Children, c)
	return nil
}

func (d *HeadlessDocument) AppendChildren(parent Node, nodes []Node) error {
	p := asHeadless(parent)
	if p.Kind != KindElement {
		return ErrAppendInTextNode
	}
	for _, node := range nodes {
		c := asHeadless(node)
		c.detach()
		c.Parent = p
		p.Children = append(p.Children, c)
	}
	return nil
}

func (d *HeadlessDocument) InsertBefore(parent Node, node Node, ref Node) error {
	p := asHeadless(parent)
	if p.Kind != KindElement {
		return ErrInsertInTextNode
	}
	if ref == nil {
		return d.AppendChild(parent, node)
	}
	r := asHeadless(ref)
	c := asHeadless(node)
	c.detach()
	idx := p.childIndex(r)
	if idx < 0 {
		return ErrNotAChild
	}
	c.Parent = p
	p.Children = append(p.Children, nil)
	copy(p.Children[idx+1:], p.Children[idx:])
	p.Children[idx] = c
	return nil
}

func (d *HeadlessDocument) RemoveChild(parent Node, node Node) error {
	p := asHeadless(parent)
	if p.Kind != KindElement {
		return ErrRemoveInTextNode
	}
	c := asHeadless(node)
	idx := p.childIndex(c)
	if idx < 0 {
		return ErrNotAChild
	}
	p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
	c.Parent = nil
	return nil
}

func (d *HeadlessDocument) ReplaceChild(parent Node, newNode Node, oldNode Node) error {
	p := asHeadless(parent)
	if p.Kind != KindElement {
		return ErrReplaceInTextNode
	}
	oldC := asHeadless(oldNode)
	idx := p.childIndex(oldC)
	if idx < 0 {
		return ErrNotAChild
	}
	newC := asHeadless(newNode)
	newC.detach()
	newC.Parent = p
	p.Children[idx] = newC
	oldC.Parent = nil
	return nil
}

func (d *HeadlessDocument) SetAttribute(node Node, name string, value string) {
	n := asHeadless(node)
	if n.Kind != KindElement {
		return
	}
	for i, attr := range n.Attrs {
		if attr.Name == name {
			n.Attrs[i].Val = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Val: value})
}

func (d *HeadlessDocument) RemoveAttribute(node Node, name string) {
	n := asHeadless(node)
	for i, attr := range n.Attrs {
		if attr.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

func (d *HeadlessDocument) SetProperty(node Node, key string, value any) {
	n := asHeadless(node)
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props[key] = value
}

func (d *HeadlessDocument) SetNodeValue(textNode Node, value string) error {
	n := asHeadless(textNode)
	if n.Kind != KindText {
		return ErrNotATextNode
	}
	n.Text = value
	return nil
}

func (n *HeadlessNode) detach() {
	if n.Parent != nil {
		n.Parent.Children = removeNode(n.Parent.Children, n)
		n.Parent = nil
	}
}

func removeNode(list []*HeadlessNode, node *HeadlessNode) []*HeadlessNode {
	for i, c := range list {
		if c == node {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// OuterHTML serializes a node to HTML with escaped text and attribute
// values. Void elements serialize without end tags.
func OuterHTML(node Node) string {
	var sb strings.Builder
	writeNode(&sb, asHeadless(node))
	return sb.String()
}

// InnerHTML serializes just the children of an element node.
func InnerHTML(node Node) string {
	var sb strings.Builder
	for _, child := range asHeadless(node).Children {
		writeNode(&sb, child)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *HeadlessNode) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		sb.WriteString(html.EscapeString(n.Text))
		return
	}
	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	for _, attr := range n.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(attr.Name)
		if attr.Val != "" {
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(attr.Val))
			sb.WriteByte('"')
		}
	}
	sb.WriteByte('>')
	if voidTags[n.Tag] {
		return
	}
	for _, child := range n.Children {
		writeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

// parseTemplate tokenizes trusted markup into a headless subtree and returns
// its first top-level element.
func parseTemplate(markup string) (*HeadlessNode, error) {
	iter := htmltoken.NewTokenizer(strings.NewReader(markup))
	root := &HeadlessNode{Kind: KindElement, Tag: "#template"}
	stack := []*HeadlessNode{root}
	appendCur := func(n *HeadlessNode) {
		parent := stack[len(stack)-1]
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}
outer:
	for {
		tokenType := iter.Next()
		token := iter.Token()
		switch tokenType {
		case htmltoken.StartTagToken, htmltoken.SelfClosingTagToken:
			elem := &HeadlessNode{Kind: KindElement, Tag: token.Data}
			for _, attr := range token.Attr {
				if attr.Key == "" {
					continue
				}
				elem.Attrs = append(elem.Attrs, Attr{Name: attr.Key, Val: attr.Val})
			}
			appendCur(elem)
			if tokenType == htmltoken.StartTagToken && !voidTags[token.Data] {
				stack = append(stack, elem)
			}
		case htmltoken.EndTagToken:
			if len(stack) <= 1 {
				return nil, fmt.Errorf("dom: template end tag %q without start tag", token.Data)
			}
			if stack[len(stack)-1].Tag != token.Data {
				return nil, fmt.Errorf("dom: template end tag %q does not match start tag %q", token.Data, stack[len(stack)-1].Tag)
			}
			stack = stack[:len(stack)-1]
		case htmltoken.TextToken:
			if token.Data == "" {
				continue
			}
			appendCur(&HeadlessNode{Kind: KindText, Text: token.Data})
		case htmltoken.CommentToken, htmltoken.DoctypeToken:
			continue
		case htmltoken.ErrorToken:
			if iter.Err() == io.EOF {
				break outer
			}
			return nil, iter.Err()
		}
	}
	for _, child := range root.Children {
		if child.Kind == KindElement {
			child.Parent = nil
			return child, nil
		}
	}
	return nil, nil
}
