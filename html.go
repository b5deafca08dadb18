// Copyright 2023 Ross Light
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

package mdtree

import (
	"fmt"
	"io"
	"strconv"

	"go4.org/bytereplacer"
	"golang.org/x/net/html/atom"
)

// htmlEscaper rewrites text for inclusion in HTML content
// and double-quoted attribute values.
var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// RenderHTML writes the document to the given writer as HTML.
// It is one concrete consumer of the render contract;
// the output uses a fixed set of elements and contains no raw HTML
// from the source text.
// It returns the first error encountered from the writer, if any.
func RenderHTML(w io.Writer, doc *Document) error {
	if _, err := w.Write(AppendHTML(nil, doc)); err != nil {
		return fmt.Errorf("render markdown to html: %w", err)
	}
	return nil
}

// AppendHTML appends the rendered HTML of a parsed document to dst
// and returns the resulting byte slice.
func AppendHTML(dst []byte, doc *Document) []byte {
	first := true
	for _, n := range doc.Children() {
		b := n.Block()
		if b == nil {
			continue
		}
		if !first {
			dst = append(dst, '\n')
		}
		first = false
		dst = appendBlockHTML(dst, b)
	}
	return dst
}

func appendEscaped(dst []byte, s string) []byte {
	return append(dst, htmlEscaper.Replace([]byte(s))...)
}

func openTag(dst []byte, name atom.Atom) []byte {
	dst = append(dst, '<')
	dst = append(dst, name.String()...)
	return append(dst, '>')
}

func closeTag(dst []byte, name atom.Atom) []byte {
	dst = append(dst, "</"...)
	dst = append(dst, name.String()...)
	return append(dst, '>')
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func appendBlockHTML(dst []byte, b *Block) []byte {
	switch b.Kind() {
	case ParagraphKind:
		dst = openTag(dst, atom.P)
		dst = appendInlineChildrenHTML(dst, b)
		dst = closeTag(dst, atom.P)
	case HeadingKind:
		name := headingAtom(b.HeadingLevel())
		dst = openTag(dst, name)
		dst = appendInlineChildrenHTML(dst, b)
		dst = closeTag(dst, name)
	case ThematicBreakKind:
		dst = openTag(dst, atom.Hr)
	case CodeBlockKind:
		dst = openTag(dst, atom.Pre)
		dst = append(dst, "<code"...)
		if lang := b.Language(); lang != "" {
			dst = append(dst, ` class="language-`...)
			dst = appendEscaped(dst, lang)
			dst = append(dst, '"')
		}
		dst = append(dst, '>')
		dst = appendEscaped(dst, b.Code())
		dst = append(dst, '\n')
		dst = closeTag(dst, atom.Code)
		dst = closeTag(dst, atom.Pre)
	case BlockQuoteKind:
		for i := 0; i < b.QuoteDepth(); i++ {
			dst = openTag(dst, atom.Blockquote)
		}
		dst = appendBlockChildrenHTML(dst, b)
		for i := 0; i < b.QuoteDepth(); i++ {
			dst = closeTag(dst, atom.Blockquote)
		}
	case ListKind:
		name := atom.Ul
		if b.ListStyle() == OrderedList {
			name = atom.Ol
		}
		if n := firstItemNumber(b); n >= 0 && n != 1 {
			dst = append(dst, "<ol start=\""...)
			dst = strconv.AppendInt(dst, int64(n), 10)
			dst = append(dst, "\">"...)
		} else {
			dst = openTag(dst, name)
		}
		for _, itemNode := range b.Children() {
			if item := itemNode.Block(); item.Kind() == ListItemKind {
				dst = appendListItemHTML(dst, item)
			}
		}
		dst = closeTag(dst, name)
	case TableKind:
		dst = appendTableHTML(dst, b.Table())
	case ImageBlockKind:
		dst = appendImageHTML(dst, b.AltText(), b.URL())
	}
	return dst
}

func firstItemNumber(list *Block) int {
	if list.ListStyle() != OrderedList || list.ChildCount() == 0 {
		return -1
	}
	return list.Child(0).Block().ItemNumber()
}

func appendListItemHTML(dst []byte, item *Block) []byte {
	dst = openTag(dst, atom.Li)
	if checked, ok := item.Checkbox(); ok {
		if checked {
			dst = append(dst, `<input type="checkbox" disabled checked> `...)
		} else {
			dst = append(dst, `<input type="checkbox" disabled> `...)
		}
	}
	// Paragraphs render bare inside list items (tight lists).
	for _, n := range item.Children() {
		child := n.Block()
		if child == nil {
			continue
		}
		if child.Kind() == ParagraphKind {
			dst = appendInlineChildrenHTML(dst, child)
		} else {
			dst = appendBlockHTML(dst, child)
		}
	}
	dst = closeTag(dst, atom.Li)
	return dst
}

func appendTableHTML(dst []byte, t *TableData) []byte {
	if t == nil {
		return dst
	}
	dst = openTag(dst, atom.Table)
	dst = openTag(dst, atom.Thead)
	dst = openTag(dst, atom.Tr)
	for i, h := range t.Headers {
		dst = appendCellHTML(dst, atom.Th, h, cellAlignment(t, i))
	}
	dst = closeTag(dst, atom.Tr)
	dst = closeTag(dst, atom.Thead)
	dst = openTag(dst, atom.Tbody)
	for _, row := range t.Rows {
		dst = openTag(dst, atom.Tr)
		for i, cell := range row {
			dst = appendCellHTML(dst, atom.Td, cell, cellAlignment(t, i))
		}
		dst = closeTag(dst, atom.Tr)
	}
	dst = closeTag(dst, atom.Tbody)
	dst = closeTag(dst, atom.Table)
	return dst
}

func cellAlignment(t *TableData, i int) Alignment {
	if i >= len(t.Alignments) {
		return AlignLeft
	}
	return t.Alignments[i]
}

func appendCellHTML(dst []byte, name atom.Atom, text string, align Alignment) []byte {
	dst = append(dst, '<')
	dst = append(dst, name.String()...)
	switch align {
	case AlignCenter:
		dst = append(dst, ` style="text-align: center"`...)
	case AlignRight:
		dst = append(dst, ` style="text-align: right"`...)
	}
	dst = append(dst, '>')
	dst = appendEscaped(dst, text)
	dst = closeTag(dst, name)
	return dst
}

func appendImageHTML(dst []byte, alt, url string) []byte {
	dst = append(dst, `<img src="`...)
	dst = appendEscaped(dst, url)
	dst = append(dst, `" alt="`...)
	dst = appendEscaped(dst, alt)
	dst = append(dst, `">`...)
	return dst
}

func appendBlockChildrenHTML(dst []byte, b *Block) []byte {
	for _, n := range b.Children() {
		if child := n.Block(); child != nil {
			dst = appendBlockHTML(dst, child)
		}
	}
	return dst
}

func appendInlineChildrenHTML(dst []byte, b *Block) []byte {
	for _, n := range b.Children() {
		if inline := n.Inline(); inline != nil {
			dst = appendInlineHTML(dst, inline)
		}
	}
	return dst
}

func appendInlineHTML(dst []byte, inline *Inline) []byte {
	switch inline.Kind() {
	case TextKind:
		dst = appendEscaped(dst, inline.Text())
	case StrongKind:
		dst = openTag(dst, atom.Strong)
		dst = appendInlinesHTML(dst, inline.Children())
		dst = closeTag(dst, atom.Strong)
	case EmphasisKind:
		dst = openTag(dst, atom.Em)
		dst = appendInlinesHTML(dst, inline.Children())
		dst = closeTag(dst, atom.Em)
	case StrikethroughKind:
		dst = openTag(dst, atom.Del)
		dst = appendInlinesHTML(dst, inline.Children())
		dst = closeTag(dst, atom.Del)
	case CodeSpanKind:
		dst = openTag(dst, atom.Code)
		dst = appendEscaped(dst, inline.Text())
		dst = closeTag(dst, atom.Code)
	case MathKind:
		dst = append(dst, `<code class="language-math">`...)
		dst = appendEscaped(dst, inline.Text())
		dst = closeTag(dst, atom.Code)
	case LinkKind:
		dst = append(dst, `<a href="`...)
		dst = appendEscaped(dst, inline.URL())
		dst = append(dst, `">`...)
		dst = appendInlinesHTML(dst, inline.Children())
		dst = closeTag(dst, atom.A)
	case ImageKind:
		dst = appendImageHTML(dst, inline.Text(), inline.URL())
	case FootnoteReferenceKind:
		dst = append(dst, `<sup title="`...)
		dst = appendEscaped(dst, inline.FootnoteText())
		dst = append(dst, `">`...)
		dst = appendEscaped(dst, inline.FootnoteLabel())
		dst = closeTag(dst, atom.Sup)
	case SoftLineBreakKind:
		dst = append(dst, '\n')
	case HardLineBreakKind:
		dst = append(dst, "<br>\n"...)
	}
	return dst
}

func appendInlinesHTML(dst []byte, inlines []*Inline) []byte {
	for _, inline := range inlines {
		dst = appendInlineHTML(dst, inline)
	}
	return dst
}
