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

import "fmt"

// A Block is a structural element in a Markdown document.
// Blocks form an immutable tree:
// callers must not modify a block after [Parse] returns it.
type Block struct {
	kind     BlockKind
	level    int    // heading level or block quote depth
	language string // fenced code block info word
	code     string // code block literal content
	alt      string // standalone image alt text
	url      string // standalone image destination
	style    ListStyle
	number   int // ordered list item source number, or -1
	task     bool
	checked  bool
	indent   int // list item indentation level
	table    *TableData
	children []Node
}

// Kind returns the type of block node
// or zero if the block is nil.
func (b *Block) Kind() BlockKind {
	if b == nil {
		return 0
	}
	return b.kind
}

// HeadingLevel returns the level (1–6) of a [HeadingKind] block,
// or zero if the block is nil or of a different kind.
func (b *Block) HeadingLevel() int {
	if b.Kind() != HeadingKind {
		return 0
	}
	return b.level
}

// QuoteDepth returns the number of '>' markers
// that introduced a [BlockQuoteKind] block,
// or zero if the block is nil or of a different kind.
func (b *Block) QuoteDepth() int {
	if b.Kind() != BlockQuoteKind {
		return 0
	}
	return b.level
}

// Language returns the info word of a [CodeBlockKind] block
// ("go" in "```go"), or the empty string if none was given.
func (b *Block) Language() string {
	if b.Kind() != CodeBlockKind {
		return ""
	}
	return b.language
}

// Code returns the literal text of a [CodeBlockKind] block.
func (b *Block) Code() string {
	if b.Kind() != CodeBlockKind {
		return ""
	}
	return b.code
}

// AltText returns the alt text of an [ImageBlockKind] block.
func (b *Block) AltText() string {
	if b.Kind() != ImageBlockKind {
		return ""
	}
	return b.alt
}

// URL returns the destination of an [ImageBlockKind] block.
func (b *Block) URL() string {
	if b.Kind() != ImageBlockKind {
		return ""
	}
	return b.url
}

// ListStyle returns the marker style of a [ListKind] block.
func (b *Block) ListStyle() ListStyle {
	if b.Kind() != ListKind {
		return 0
	}
	return b.style
}

// ItemNumber returns the number of a [ListItemKind] block
// in an ordered list, or -1 for bullet and task items.
func (b *Block) ItemNumber() int {
	if b.Kind() != ListItemKind {
		return -1
	}
	return b.number
}

// Checkbox reports whether a [ListItemKind] block carries a
// task checkbox and whether that checkbox is checked.
func (b *Block) Checkbox() (checked, ok bool) {
	if b.Kind() != ListItemKind {
		return false, false
	}
	return b.checked, b.task
}

// Indent returns the indentation level of a [ListItemKind] block.
// Top-level items have indent zero.
func (b *Block) Indent() int {
	if b.Kind() != ListItemKind {
		return 0
	}
	return b.indent
}

// Table returns the cell data of a [TableKind] block
// or nil for any other kind.
// The returned data is shared and must not be modified.
func (b *Block) Table() *TableData {
	if b.Kind() != TableKind {
		return nil
	}
	return b.table
}

// Children returns the block's child nodes.
// The returned slice is shared and must not be modified.
func (b *Block) Children() []Node {
	if b == nil {
		return nil
	}
	return b.children
}

// ChildCount returns the number of children the block has.
// Calling ChildCount on nil returns 0.
func (b *Block) ChildCount() int {
	if b == nil {
		return 0
	}
	return len(b.children)
}

// Child returns the i'th child of the block.
func (b *Block) Child(i int) Node {
	return b.children[i]
}

// BlockKind is an enumeration of values returned by [*Block.Kind].
type BlockKind uint16

const (
	ParagraphKind BlockKind = 1 + iota
	HeadingKind
	ThematicBreakKind
	CodeBlockKind
	BlockQuoteKind
	ListKind
	ListItemKind
	TableKind
	ImageBlockKind

	documentKind
)

// String returns the Go constant name of the kind.
func (kind BlockKind) String() string {
	switch kind {
	case ParagraphKind:
		return "ParagraphKind"
	case HeadingKind:
		return "HeadingKind"
	case ThematicBreakKind:
		return "ThematicBreakKind"
	case CodeBlockKind:
		return "CodeBlockKind"
	case BlockQuoteKind:
		return "BlockQuoteKind"
	case ListKind:
		return "ListKind"
	case ListItemKind:
		return "ListItemKind"
	case TableKind:
		return "TableKind"
	case ImageBlockKind:
		return "ImageBlockKind"
	case documentKind:
		return "documentKind"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint16(kind))
	}
}

// ListStyle distinguishes the three list marker styles.
type ListStyle uint8

const (
	BulletList ListStyle = 1 + iota
	OrderedList
	TaskList
)

// String returns the Go constant name of the style.
func (style ListStyle) String() string {
	switch style {
	case BulletList:
		return "BulletList"
	case OrderedList:
		return "OrderedList"
	case TaskList:
		return "TaskList"
	default:
		return fmt.Sprintf("ListStyle(%d)", uint8(style))
	}
}

// Alignment is the horizontal alignment of a table column,
// derived from colon placement in the table's separator line.
type Alignment int8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// String returns the Go constant name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "AlignLeft"
	case AlignCenter:
		return "AlignCenter"
	case AlignRight:
		return "AlignRight"
	default:
		return fmt.Sprintf("Alignment(%d)", int8(a))
	}
}

// TableData holds the cells of a [TableKind] block.
// Cells are stored as trimmed source text.
type TableData struct {
	Headers    []string
	Alignments []Alignment
	Rows       [][]string
}

// Columns returns the number of columns in the table header.
func (t *TableData) Columns() int {
	if t == nil {
		return 0
	}
	return len(t.Headers)
}

// Inline represents Markdown content elements like text, links, or emphasis.
// Inline children nest only other inlines, never blocks.
type Inline struct {
	kind     InlineKind
	text     string // literal text, code, math, image alt, or footnote label
	url      string // link or image destination
	note     string // resolved footnote definition text
	children []*Inline
}

// Kind returns the type of inline node
// or zero if the node is nil.
func (inline *Inline) Kind() InlineKind {
	if inline == nil {
		return 0
	}
	return inline.kind
}

// Text converts a non-container inline node into a string.
func (inline *Inline) Text() string {
	switch inline.Kind() {
	case TextKind, CodeSpanKind, MathKind, ImageKind:
		return inline.text
	case SoftLineBreakKind, HardLineBreakKind:
		return "\n"
	default:
		return ""
	}
}

// URL returns the destination of a [LinkKind] or [ImageKind] node.
func (inline *Inline) URL() string {
	if k := inline.Kind(); k != LinkKind && k != ImageKind {
		return ""
	}
	return inline.url
}

// FootnoteLabel returns the label of a [FootnoteReferenceKind] node.
func (inline *Inline) FootnoteLabel() string {
	if inline.Kind() != FootnoteReferenceKind {
		return ""
	}
	return inline.text
}

// FootnoteText returns the definition text
// that a [FootnoteReferenceKind] node resolved to.
func (inline *Inline) FootnoteText() string {
	if inline.Kind() != FootnoteReferenceKind {
		return ""
	}
	return inline.note
}

// Children returns the inline's child nodes.
// The returned slice is shared and must not be modified.
func (inline *Inline) Children() []*Inline {
	if inline == nil {
		return nil
	}
	return inline.children
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on nil returns 0.
func (inline *Inline) ChildCount() int {
	if inline == nil {
		return 0
	}
	return len(inline.children)
}

// Child returns the i'th child of the node.
func (inline *Inline) Child(i int) *Inline {
	return inline.children[i]
}

// InlineKind is an enumeration of values returned by [*Inline.Kind].
type InlineKind uint16

const (
	TextKind InlineKind = 1 + iota
	StrongKind
	EmphasisKind
	StrikethroughKind
	CodeSpanKind
	LinkKind
	ImageKind
	MathKind
	FootnoteReferenceKind
	SoftLineBreakKind
	HardLineBreakKind
)

// String returns the Go constant name of the kind.
func (kind InlineKind) String() string {
	switch kind {
	case TextKind:
		return "TextKind"
	case StrongKind:
		return "StrongKind"
	case EmphasisKind:
		return "EmphasisKind"
	case StrikethroughKind:
		return "StrikethroughKind"
	case CodeSpanKind:
		return "CodeSpanKind"
	case LinkKind:
		return "LinkKind"
	case ImageKind:
		return "ImageKind"
	case MathKind:
		return "MathKind"
	case FootnoteReferenceKind:
		return "FootnoteReferenceKind"
	case SoftLineBreakKind:
		return "SoftLineBreakKind"
	case HardLineBreakKind:
		return "HardLineBreakKind"
	default:
		return fmt.Sprintf("InlineKind(%d)", uint16(kind))
	}
}
