// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

import (
	"fmt"
	"io"
	"strings"

	"github.com/wavetermdev/htmltoken"
)

// can tokenize and bind HTML to Elems

const Html_ParamPrefix = "#param:"
const Html_BindParamTagName = "bindparam"

func appendChildToStack(stack []*Elem, child *Elem) {
	if child == nil || len(stack) == 0 {
		return
	}
	parent := stack[len(stack)-1]
	parent.Children = append(parent.Children, *child)
}

func popElemStack(stack []*Elem) []*Elem {
	if len(stack) <= 1 {
		return stack
	}
	curElem := stack[len(stack)-1]
	appendChildToStack(stack[:len(stack)-1], curElem)
	return stack[:len(stack)-1]
}

func curElemTag(stack []*Elem) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1].Tag
}

func finalizeStack(stack []*Elem) *Elem {
	if len(stack) == 0 {
		return nil
	}
	for len(stack) > 1 {
		stack = popElemStack(stack)
	}
	rtnElem := stack[0]
	if len(rtnElem.Children) == 0 {
		return nil
	}
	if len(rtnElem.Children) == 1 {
		return &rtnElem.Children[0]
	}
	return rtnElem
}

func getAttrString(token htmltoken.Token, key string) string {
	for _, attr := range token.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func attrToVal(attrVal string, params map[string]any) string {
	if strings.HasPrefix(attrVal, Html_ParamPrefix) {
		bindKey := attrVal[len(Html_ParamPrefix):]
		bindVal, ok := params[bindKey]
		if !ok {
			return ""
		}
		if strVal, ok := bindVal.(string); ok {
			return strVal
		}
		return fmt.Sprint(bindVal)
	}
	return attrVal
}

func tokenToElem(token htmltoken.Token, params map[string]any) *Elem {
	elem := &Elem{Kind: KindElement, Tag: token.Data}
	for _, attr := range token.Attr {
		if attr.Key == "" {
			continue
		}
		elem.Attrs = append(elem.Attrs, Attr{Name: attr.Key, Val: attrToVal(attr.Val, params)})
	}
	return elem
}

func isWsChar(char rune) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}

func isWsByte(char byte) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}

func isFirstCharLt(s string) bool {
	for _, char := range s {
		if isWsChar(char) {
			continue
		}
		return char == '<'
	}
	return false
}

func isLastCharGt(s string) bool {
	for i := len(s) - 1; i >= 0; i-- {
		if isWsByte(s[i]) {
			continue
		}
		return s[i] == '>'
	}
	return false
}

func isAllWhitespace(s string) bool {
	for _, char := range s {
		if !isWsChar(char) {
			return false
		}
	}
	return true
}

func trimWhitespaceConditionally(s string) string {
	if isAllWhitespace(s) {
		return ""
	}
	if isFirstCharLt(s) {
		s = strings.TrimLeftFunc(s, isWsChar)
	}
	if isLastCharGt(s) {
		s = strings.TrimRightFunc(s, isWsChar)
	}
	return s
}

func processWhitespace(htmlStr string) string {
	lines := strings.Split(htmlStr, "\n")
	var newLines []string
	for _, line := range lines {
		trimmedLine := trimWhitespaceConditionally(line + "\n")
		if trimmedLine == "" {
			continue
		}
		newLines = append(newLines, trimmedLine)
	}
	return strings.Join(newLines, "")
}

func processTextStr(s string) string {
	if s == "" {
		return ""
	}
	if isAllWhitespace(s) {
		return " "
	}
	return strings.TrimSpace(s)
}

// Parse tokenizes an HTML snippet into a descriptor tree. Param references
// ("#param:name" attribute values and <bindparam key="name"/> children) are
// substituted from params. A snippet with multiple top-level nodes returns a
// fragment.
func Parse(htmlStr string, params map[string]any) (*Elem, error) {
	htmlStr = processWhitespace(htmlStr)
	iter := htmltoken.NewTokenizer(strings.NewReader(htmlStr))
	var elemStack []*Elem
	elemStack = append(elemStack, &Elem{Kind: KindElement, Tag: FragmentTag})
outer:
	for {
		tokenType := iter.Next()
		token := iter.Token()
		switch tokenType {
		case htmltoken.StartTagToken:
			if token.Data == Html_BindParamTagName {
				return nil, fmt.Errorf("bindparam tags must be self closing")
			}
			elemStack = append(elemStack, tokenToElem(token, params))
		case htmltoken.EndTagToken:
			if len(elemStack) <= 1 {
				return nil, fmt.Errorf("end tag %q without start tag", token.Data)
			}
			if curElemTag(elemStack) != token.Data {
				return nil, fmt.Errorf("end tag %q does not match start tag %q", token.Data, curElemTag(elemStack))
			}
			elemStack = popElemStack(elemStack)
		case htmltoken.SelfClosingTagToken:
			if token.Data == Html_BindParamTagName {
				keyAttr := getAttrString(token, "key")
				for _, elem := range PartToElems(params[keyAttr]) {
					appendChildToStack(elemStack, &elem)
				}
				continue
			}
			appendChildToStack(elemStack, tokenToElem(token, params))
		case htmltoken.TextToken:
			textStr := processTextStr(token.Data)
			if textStr == "" {
				continue
			}
			elem := TextElem(textStr)
			appendChildToStack(elemStack, &elem)
		case htmltoken.CommentToken:
			continue
		case htmltoken.DoctypeToken:
			return nil, fmt.Errorf("doctype not supported")
		case htmltoken.ErrorToken:
			if iter.Err() == io.EOF {
				break outer
			}
			return nil, iter.Err()
		}
	}
	return finalizeStack(elemStack), nil
}
