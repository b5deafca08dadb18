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

// ElementKind is an enumeration of values of [RenderElement.Kind].
type ElementKind uint8

const (
	TextElement ElementKind = 1 + iota
	HeadingElement
	CodeElement
	ListItemElement
	TableElement
	RuleElement
	ImageElement
)

// String returns the Go constant name of the kind.
func (kind ElementKind) String() string {
	switch kind {
	case TextElement:
		return "TextElement"
	case HeadingElement:
		return "HeadingElement"
	case CodeElement:
		return "CodeElement"
	case ListItemElement:
		return "ListItemElement"
	case TableElement:
		return "TableElement"
	case RuleElement:
		return "RuleElement"
	case ImageElement:
		return "ImageElement"
	default:
		return fmt.Sprintf("ElementKind(%d)", uint8(kind))
	}
}

// A RenderElement is one entry of the flattened, render-ready
// representation of a [Document].
// Elements are immutable once returned;
// a UI layer consumes them in order, top to bottom.
//
// Quote and Indent carry structural context that flattening
// would otherwise lose:
// the block quote depth and list nesting level
// the element appeared under.
type RenderElement struct {
	Kind   ElementKind
	Quote  int
	Indent int

	// Inlines is the styled-text content for textual elements;
	// Markdown is its Markdown-equivalent string,
	// for renderers that consume text rather than node sequences.
	Inlines  []*Inline
	Markdown string

	// Level is the heading level of a HeadingElement.
	Level int

	// Number, Task, and Checked describe a ListItemElement.
	// Number is -1 for bullet and task items.
	Number  int
	Task    bool
	Checked bool

	// Language, Code, and Diagram describe a CodeElement.
	// Diagram marks code tagged with a diagram language;
	// the code passes through unmodified for an external renderer.
	Language string
	Code     string
	Diagram  bool

	// AltText and URL describe an ImageElement.
	AltText string
	URL     string

	// Table holds the cells of a TableElement.
	Table *TableData
}

// diagramLanguages are fence info words handed to an external
// diagram renderer instead of a code view.
var diagramLanguages = map[string]bool{
	"mermaid":  true,
	"dot":      true,
	"graphviz": true,
	"plantuml": true,
}

// IsDiagramLanguage reports whether a code fence info word
// names a diagram language.
func IsDiagramLanguage(language string) bool {
	return diagramLanguages[language]
}

// RenderToElements flattens a parsed document into a linear
// sequence of render-ready elements.
// The same document always produces the same sequence.
func RenderToElements(doc *Document) []RenderElement {
	f := new(flattener)
	f.blocks(doc.Children(), 0, 0)
	return f.out
}

type flattener struct {
	out []RenderElement
}

func (f *flattener) blocks(children []Node, quote, indent int) {
	for _, n := range children {
		b := n.Block()
		if b == nil {
			continue
		}
		switch b.Kind() {
		case ParagraphKind:
			inlines := inlinesOf(b)
			f.out = append(f.out, RenderElement{
				Kind:     TextElement,
				Quote:    quote,
				Indent:   indent,
				Inlines:  inlines,
				Markdown: InlineMarkdown(inlines),
			})
		case HeadingKind:
			inlines := inlinesOf(b)
			f.out = append(f.out, RenderElement{
				Kind:     HeadingElement,
				Quote:    quote,
				Indent:   indent,
				Level:    b.HeadingLevel(),
				Inlines:  inlines,
				Markdown: InlineMarkdown(inlines),
			})
		case CodeBlockKind:
			f.out = append(f.out, RenderElement{
				Kind:     CodeElement,
				Quote:    quote,
				Indent:   indent,
				Language: b.Language(),
				Code:     b.Code(),
				Diagram:  IsDiagramLanguage(b.Language()),
			})
		case BlockQuoteKind:
			f.blocks(b.Children(), quote+b.QuoteDepth(), indent)
		case ListKind:
			for _, itemNode := range b.Children() {
				if item := itemNode.Block(); item.Kind() == ListItemKind {
					f.item(item, quote, indent)
				}
			}
		case TableKind:
			f.out = append(f.out, RenderElement{
				Kind:   TableElement,
				Quote:  quote,
				Indent: indent,
				Table:  b.Table(),
			})
		case ThematicBreakKind:
			f.out = append(f.out, RenderElement{
				Kind:   RuleElement,
				Quote:  quote,
				Indent: indent,
			})
		case ImageBlockKind:
			f.out = append(f.out, RenderElement{
				Kind:    ImageElement,
				Quote:   quote,
				Indent:  indent,
				AltText: b.AltText(),
				URL:     b.URL(),
			})
		}
	}
}

// item emits a list item row from the item's leading paragraph,
// then flattens the item's remaining children one level deeper.
func (f *flattener) item(item *Block, quote, indent int) {
	checked, task := item.Checkbox()
	children := item.Children()
	var lead []*Inline
	rest := children
	if len(children) > 0 {
		if pb := children[0].Block(); pb.Kind() == ParagraphKind {
			lead = inlinesOf(pb)
			rest = children[1:]
		}
	}
	f.out = append(f.out, RenderElement{
		Kind:     ListItemElement,
		Quote:    quote,
		Indent:   indent,
		Number:   item.ItemNumber(),
		Task:     task,
		Checked:  checked,
		Inlines:  lead,
		Markdown: InlineMarkdown(lead),
	})
	f.blocks(rest, quote, indent+1)
}

func inlinesOf(b *Block) []*Inline {
	children := b.Children()
	inlines := make([]*Inline, 0, len(children))
	for _, n := range children {
		if inline := n.Inline(); inline != nil {
			inlines = append(inlines, inline)
		}
	}
	return inlines
}
