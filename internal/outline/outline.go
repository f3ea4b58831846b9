// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline reads outline documents that encode an administrative
// hierarchy as Markdown headings and nested list items:
//
//	# [Beijing](110000)
//	## [Beijing City](110100)
//	- [Dongcheng](110101)
//	  - [Donghuamen](110101001)
//	    - [Duofu Alley](110101001001)
//
// Each matched line yields an Entry carrying the node and the label path
// from the root down to it.
package outline

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/boundary-fetch/pkg/types"
)

// maxLineBytes bounds a single outline line.
const maxLineBytes = 1 << 20

// markers maps line prefixes to levels. Order matters: deeper list markers
// are tested first because they share a suffix with shallower ones.
var markers = []struct {
	prefix string
	level  types.Level
}{
	{"    - ", types.LevelVillage},
	{"  - ", types.LevelTown},
	{"- ", types.LevelDistrict},
	{"## ", types.LevelCity},
	{"# ", types.LevelProvince},
}

// barePattern matches the link-less form "Label(code)" at the end of a line.
var barePattern = regexp.MustCompile(`^(.*?\S)\s*\(([^()\s]+)\)\s*$`)

var md = goldmark.New()

// LevelOf returns the level encoded by the line's marker and the text after
// the marker. Lines without a known marker return LevelNone.
func LevelOf(line string) (types.Level, string) {
	for _, m := range markers {
		if strings.HasPrefix(line, m.prefix) {
			return m.level, line[len(m.prefix):]
		}
	}
	return types.LevelNone, ""
}

// MatchNode extracts a label and code from s. The first Markdown link wins:
// "[Label](code)". Without a link, a trailing "Label(code)" is accepted.
func MatchNode(s string) (label, code string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false
	}
	if label, code, ok := firstLink(s); ok {
		return label, code, true
	}
	if m := barePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), m[2], true
	}
	return "", "", false
}

// ParseLine classifies a single raw outline line. It reports false for
// blank lines, lines without a level marker, and lines without a node.
func ParseLine(line string) (types.HierarchyNode, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return types.HierarchyNode{}, false
	}
	level, rest := LevelOf(line)
	if level == types.LevelNone {
		return types.HierarchyNode{}, false
	}
	label, code, ok := MatchNode(rest)
	if !ok {
		return types.HierarchyNode{}, false
	}
	return types.HierarchyNode{Label: label, Code: code, Level: level}, true
}

func firstLink(s string) (label, code string, ok bool) {
	src := []byte(s)
	doc := md.Parser().Parse(text.NewReader(src))

	var link *ast.Link
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if l, isLink := n.(*ast.Link); isLink {
			link = l
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if link == nil {
		return "", "", false
	}
	return strings.TrimSpace(inlineText(link, src)), string(link.Destination), true
}

// inlineText concatenates the text of n's inline descendants.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Value(src))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}

// State is the label stack threaded through successive lines of one
// outline. The zero value is ready to use.
type State struct {
	stack []string
}

// Push truncates the stack to node.Level-1 entries, appends node.Label and
// returns a copy of the resulting path. Levels outside 1..5 leave the
// state untouched and return nil.
func (s *State) Push(node types.HierarchyNode) []string {
	if !node.Level.Valid() {
		return nil
	}
	if keep := int(node.Level) - 1; keep < len(s.stack) {
		s.stack = s.stack[:keep]
	}
	s.stack = append(s.stack, node.Label)
	return slices.Clone(s.stack)
}

// Depth returns the current stack depth.
func (s *State) Depth() int {
	return len(s.stack)
}

// Entry is one node of an outline together with its path context.
type Entry struct {
	Node types.HierarchyNode

	// Path holds the labels from the root to Node, Node included.
	Path []string

	// Line is the 1-based line number in the source document.
	Line int
}

// Parents returns the labels above the node.
func (e Entry) Parents() []string {
	if len(e.Path) == 0 {
		return nil
	}
	return e.Path[:len(e.Path)-1]
}

// FullName concatenates the path labels. The site resolves villages by
// this name.
func (e Entry) FullName() string {
	return strings.Join(e.Path, "")
}

// Parse returns a lazy sequence of entries read from r. A read error is
// yielded once and ends the sequence.
func Parse(r io.Reader) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		var state State
		lineNo := 0
		for sc.Scan() {
			lineNo++
			line := sc.Text()
			if lineNo == 1 {
				line = strings.TrimPrefix(line, "\ufeff")
			}
			node, ok := ParseLine(line)
			if !ok {
				continue
			}
			path := state.Push(node)
			if !yield(Entry{Node: node, Path: path, Line: lineNo}, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("reading outline at line %d: %w", lineNo+1, err))
		}
	}
}

// ParseFile is Parse over the named file. The file is closed when the
// sequence ends or the caller stops iterating.
func ParseFile(path string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(Entry{}, fmt.Errorf("opening outline %s: %w", path, err))
			return
		}
		defer f.Close()

		for e, err := range Parse(f) {
			if !yield(e, err) {
				return
			}
		}
	}
}
