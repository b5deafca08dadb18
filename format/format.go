// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package format writes a parsed document back out as Markdown
// that parses to an equivalent tree.
package format

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"zombiezen.com/go/mdtree"
)

// Format writes the document as Markdown to the given writer.
// Formatting a document, reparsing the output, and formatting again
// produces identical text.
func Format(w io.Writer, doc *mdtree.Document) error {
	ww := &errWriter{w: w}
	f := &formatter{w: ww}
	for _, n := range doc.Children() {
		b := n.Block()
		if b == nil {
			continue
		}
		f.separate("")
		f.block(b, "")
	}
	f.definitions(doc)
	return ww.err
}

type formatter struct {
	w *errWriter
}

// separate writes a blank line between sibling blocks.
// Inside a blockquote the blank line keeps the quote markers.
func (f *formatter) separate(prefix string) {
	if f.w.hasWritten {
		f.w.WriteString(strings.TrimRight(prefix, " "))
		f.w.WriteString("\n")
	}
}

func (f *formatter) block(b *mdtree.Block, prefix string) {
	switch b.Kind() {
	case mdtree.ParagraphKind:
		f.lines(mdtree.InlineMarkdown(inlineChildren(b)), prefix, prefix)
	case mdtree.HeadingKind:
		f.w.WriteString(prefix)
		f.w.WriteString(strings.Repeat("#", b.HeadingLevel()))
		f.w.WriteString(" ")
		f.w.WriteString(mdtree.InlineMarkdown(inlineChildren(b)))
		f.w.WriteString("\n")
	case mdtree.ThematicBreakKind:
		f.w.WriteString(prefix)
		f.w.WriteString("---\n")
	case mdtree.CodeBlockKind:
		f.w.WriteString(prefix)
		f.w.WriteString("```")
		f.w.WriteString(b.Language())
		f.w.WriteString("\n")
		for _, line := range strings.Split(b.Code(), "\n") {
			f.w.WriteString(prefix)
			f.w.WriteString(line)
			f.w.WriteString("\n")
		}
		f.w.WriteString(prefix)
		f.w.WriteString("```\n")
	case mdtree.BlockQuoteKind:
		inner := prefix + strings.Repeat("> ", b.QuoteDepth())
		for i, n := range b.Children() {
			child := n.Block()
			if child == nil {
				continue
			}
			if i > 0 {
				f.w.WriteString(strings.TrimRight(inner, " "))
				f.w.WriteString("\n")
			}
			f.block(child, inner)
		}
	case mdtree.ListKind:
		for _, n := range b.Children() {
			if item := n.Block(); item.Kind() == mdtree.ListItemKind {
				f.item(item, b.ListStyle(), prefix)
			}
		}
	case mdtree.TableKind:
		f.table(b.Table(), prefix)
	case mdtree.ImageBlockKind:
		f.w.WriteString(prefix)
		f.w.WriteString("![")
		f.w.WriteString(b.AltText())
		f.w.WriteString("](")
		f.w.WriteString(b.URL())
		f.w.WriteString(")\n")
	}
}

func (f *formatter) item(item *mdtree.Block, style mdtree.ListStyle, prefix string) {
	marker := "- "
	switch style {
	case mdtree.OrderedList:
		marker = strconv.Itoa(item.ItemNumber()) + ". "
	case mdtree.TaskList:
		if checked, ok := item.Checkbox(); ok {
			if checked {
				marker = "- [x] "
			} else {
				marker = "- [ ] "
			}
		}
	}
	cont := prefix + strings.Repeat(" ", len(marker))
	children := item.Children()
	wroteMarker := false
	for _, n := range children {
		child := n.Block()
		if child == nil {
			continue
		}
		if !wroteMarker {
			f.w.WriteString(prefix)
			f.w.WriteString(marker)
			wroteMarker = true
			if child.Kind() == mdtree.ParagraphKind {
				f.lines(mdtree.InlineMarkdown(inlineChildren(child)), "", cont)
				continue
			}
			// Marker on its own line when the item starts with a
			// non-paragraph block.
			f.w.WriteString("\n")
		}
		if child.Kind() == mdtree.ListKind {
			// Nested lists indent two spaces past the parent marker.
			f.block(child, prefix+"  ")
		} else {
			f.block(child, cont)
		}
	}
	if !wroteMarker {
		f.w.WriteString(prefix)
		f.w.WriteString(marker)
		f.w.WriteString("\n")
	}
}

// lines writes inline Markdown that may span multiple lines.
// The first line gets the first prefix (empty after a list marker)
// and continuation lines get cont.
func (f *formatter) lines(s, first, cont string) {
	for i, line := range strings.Split(s, "\n") {
		if i == 0 {
			f.w.WriteString(first)
		} else {
			f.w.WriteString(cont)
		}
		f.w.WriteString(line)
		f.w.WriteString("\n")
	}
}

func (f *formatter) table(t *mdtree.TableData, prefix string) {
	if t == nil {
		return
	}
	f.row(t.Headers, prefix)
	sep := make([]string, len(t.Headers))
	for i := range sep {
		a := mdtree.AlignLeft
		if i < len(t.Alignments) {
			a = t.Alignments[i]
		}
		switch a {
		case mdtree.AlignCenter:
			sep[i] = ":---:"
		case mdtree.AlignRight:
			sep[i] = "---:"
		default:
			sep[i] = "---"
		}
	}
	f.row(sep, prefix)
	for _, r := range t.Rows {
		f.row(r, prefix)
	}
}

func (f *formatter) row(cells []string, prefix string) {
	f.w.WriteString(prefix)
	f.w.WriteString("|")
	for _, c := range cells {
		f.w.WriteString(" ")
		f.w.WriteString(c)
		f.w.WriteString(" |")
	}
	f.w.WriteString("\n")
}

// definitions re-emits link reference and footnote definitions.
// Keys are sorted so output does not depend on map iteration order.
func (f *formatter) definitions(doc *mdtree.Document) {
	if len(doc.Links) > 0 {
		f.separate("")
		for _, label := range sortedKeys(doc.Links) {
			f.w.WriteString("[")
			f.w.WriteString(label)
			f.w.WriteString("]: ")
			f.w.WriteString(doc.Links[label])
			f.w.WriteString("\n")
		}
	}
	if len(doc.Footnotes) > 0 {
		f.separate("")
		for _, label := range sortedKeys(doc.Footnotes) {
			f.w.WriteString("[^")
			f.w.WriteString(label)
			f.w.WriteString("]: ")
			f.w.WriteString(doc.Footnotes[label])
			f.w.WriteString("\n")
		}
	}
}

func sortedKeys[M ~map[string]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func inlineChildren(b *mdtree.Block) []*mdtree.Inline {
	inlines := make([]*mdtree.Inline, 0, b.ChildCount())
	for _, n := range b.Children() {
		if inline := n.Inline(); inline != nil {
			inlines = append(inlines, inline)
		}
	}
	return inlines
}

type errWriter struct {
	w          io.Writer
	hasWritten bool
	err        error
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}
