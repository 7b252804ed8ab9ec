// Package canon implements the DB-C14N canonicalizer of spec.md §4.5,
// adapted from the teacher's etree-based schema validator
// (internal/pkg/ddex/schema_validator.go) into a DOM-rewriting
// canonicalization pass instead of a validation pass.
package canon

import (
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"ddexcore/config"
	"ddexcore/ddexerr"
)

// Canonicalize re-serializes data according to mode. "none" passes
// the bytes through unchanged (after line-ending normalization only);
// "c14n" and "db_c14n" apply the full rule set of spec.md §4.5.
// db_c14n is idempotent: canonicalizing already-canonical output
// yields identical bytes.
func Canonicalize(data []byte, mode config.Canonicalization, preserveNSPrefixes bool) ([]byte, *ddexerr.Error) {
	normalized := normalizeLineEndings(data)
	if mode == config.CanonNone {
		return normalized, nil
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = false
	if err := doc.ReadFromBytes(normalized); err != nil {
		return nil, ddexerr.NewXMLError("canonicalizer: "+err.Error(), ddexerr.Location{})
	}

	root := doc.Root()
	if root == nil {
		return nil, ddexerr.NewXMLError("canonicalizer: document has no root element", ddexerr.Location{})
	}

	if !preserveNSPrefixes {
		remapNamespaces(root)
	}

	stripWhitespaceText(root)
	sortAttrsRecursive(root)

	stripProcInsts(doc)
	if mode == config.CanonDBC14N || mode == config.CanonC14N || mode == config.CanonC14N11 {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		// CreateProcInst appends; the declaration belongs first.
		moveFirst(doc)
	}

	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true
	doc.WriteSettings.CanonicalEndTags = false

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, ddexerr.NewXMLError("canonicalizer: "+err.Error(), ddexerr.Location{})
	}
	return out, nil
}

func normalizeLineEndings(data []byte) []byte {
	s := string(data)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return []byte(s)
}

func stripProcInsts(doc *etree.Document) {
	var kept []etree.Token
	for _, t := range doc.Child {
		if _, ok := t.(*etree.ProcInst); ok {
			continue
		}
		kept = append(kept, t)
	}
	doc.Child = kept
}

func moveFirst(doc *etree.Document) {
	for i, t := range doc.Child {
		if pi, ok := t.(*etree.ProcInst); ok && i != 0 {
			doc.Child = append(doc.Child[:i], doc.Child[i+1:]...)
			doc.Child = append([]etree.Token{pi}, doc.Child...)
			return
		}
	}
}

// stripWhitespaceText removes whitespace-only CharData between
// elements, preserving it wherever an element already mixes
// non-whitespace text with child elements (mixed content).
func stripWhitespaceText(el *etree.Element) {
	mixed := false
	for _, t := range el.Child {
		if cd, ok := t.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			mixed = true
			break
		}
	}
	var kept []etree.Token
	for _, t := range el.Child {
		if cd, ok := t.(*etree.CharData); ok {
			if !mixed && strings.TrimSpace(cd.Data) == "" {
				continue
			}
		}
		kept = append(kept, t)
	}
	el.Child = kept

	for _, c := range el.ChildElements() {
		stripWhitespaceText(c)
	}
}

// sortAttrsRecursive orders attributes per spec.md §4.5(4): namespace
// declarations first (default namespace first, then by prefix), then
// all other attributes lexicographically by (space, key).
func sortAttrsRecursive(el *etree.Element) {
	sort.SliceStable(el.Attr, func(i, j int) bool {
		a, b := el.Attr[i], el.Attr[j]
		aNS, bNS := isNSDecl(a), isNSDecl(b)
		if aNS != bNS {
			return aNS
		}
		if aNS && bNS {
			if a.Key == "xmlns" {
				return true
			}
			if b.Key == "xmlns" {
				return false
			}
			return a.Key < b.Key
		}
		if a.Space != b.Space {
			return a.Space < b.Space
		}
		return a.Key < b.Key
	})
	for _, c := range el.ChildElements() {
		sortAttrsRecursive(c)
	}
}

func isNSDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

// remapNamespaces assigns a deterministic canonical prefix to every
// namespace URI declared under root: "ern" for any DDEX ERN namespace,
// "xs" for XMLSchema-instance, and "nsN" for the rest in first-seen
// document order, then rewrites every element and
// attribute to use the canonical prefix.
func remapNamespaces(root *etree.Element) {
	uriOrder := []string{}
	seen := map[string]bool{}
	collectNamespaceURIs(root, seen, &uriOrder)

	canonical := make(map[string]string, len(uriOrder))
	nextIdx := 1
	for _, uri := range uriOrder {
		switch {
		case strings.Contains(uri, "ddex.net/xml/ern"):
			canonical[uri] = "ern"
		case strings.Contains(uri, "XMLSchema-instance"):
			canonical[uri] = "xs"
		default:
			canonical[uri] = "ns" + strconv.Itoa(nextIdx)
			nextIdx++
		}
	}

	oldToNewPrefix := map[string]string{}
	rewriteElement(root, canonical, oldToNewPrefix, true)
}

func collectNamespaceURIs(el *etree.Element, seen map[string]bool, order *[]string) {
	for _, a := range el.Attr {
		if isNSDecl(a) && !seen[a.Value] {
			seen[a.Value] = true
			*order = append(*order, a.Value)
		}
	}
	for _, c := range el.ChildElements() {
		collectNamespaceURIs(c, seen, order)
	}
}

func rewriteElement(el *etree.Element, canonical map[string]string, oldToNew map[string]string, isRoot bool) {
	for i := range el.Attr {
		a := &el.Attr[i]
		if !isNSDecl(*a) {
			continue
		}
		newPrefix := canonical[a.Value]
		oldPrefix := a.Key
		if a.Space == "" {
			oldPrefix = ""
		}
		oldToNew[oldPrefix] = newPrefix
		if newPrefix == "" {
			a.Space = ""
			a.Key = "xmlns"
		} else {
			a.Space = "xmlns"
			a.Key = newPrefix
		}
	}
	if newSpace, ok := oldToNew[el.Space]; ok {
		el.Space = newSpace
	}
	for i := range el.Attr {
		a := &el.Attr[i]
		if isNSDecl(*a) {
			continue
		}
		if newSpace, ok := oldToNew[a.Space]; ok {
			a.Space = newSpace
		}
	}
	for _, c := range el.ChildElements() {
		rewriteElement(c, canonical, oldToNew, false)
	}
}
