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

// Package mdtree converts Markdown text,
// as typically produced by AI chat assistants,
// into trees of typed block and inline nodes
// suitable for rendering in any UI toolkit.
//
// Parsing runs in two passes:
// a pre-pass extracts link reference and footnote definitions,
// then a recursive block parser classifies lines into block constructs
// and hands text spans to an inline tokenizer.
// The parser never fails on malformed input;
// it degrades to plain text nodes and truncates oversized input
// instead of returning errors.
package mdtree

import "strings"

// Default size and depth ceilings.
// Input beyond a ceiling is truncated with [TruncationMarker],
// never rejected.
const (
	DefaultMaxNestingDepth  = 20
	DefaultMaxContentLength = 100000
	DefaultMaxInlineLength  = 5000
)

// TruncationMarker is appended wherever the parser cuts off
// oversized content.
const TruncationMarker = "…"

// depthSentinel is the placeholder text emitted
// where the tree would exceed the nesting depth bound.
const depthSentinel = "[content nested too deeply]"

// Features enables optional Markdown extensions.
type Features struct {
	Tables    bool
	TaskLists bool
	Footnotes bool
	Math      bool
}

// AllFeatures returns a Features value with every extension enabled.
func AllFeatures() Features {
	return Features{Tables: true, TaskLists: true, Footnotes: true, Math: true}
}

// Config is the set of parameters for a parse.
// A Config value is immutable for the duration of a [Parser.Parse] call.
type Config struct {
	// MaxNestingDepth bounds block tree depth.
	// At the bound the parser emits a placeholder text node
	// instead of recursing.
	// Values <= 0 mean DefaultMaxNestingDepth.
	MaxNestingDepth int
	// MaxContentLength bounds total document length in bytes.
	// Values <= 0 mean DefaultMaxContentLength.
	MaxContentLength int
	// MaxInlineLength bounds the length of a single inline span.
	// Values <= 0 mean DefaultMaxInlineLength.
	MaxInlineLength int

	// Features selects which Markdown extensions are recognized.
	Features Features

	// RenumberLists repairs ordered lists whose source numbers
	// do not increment (a common AI generator artifact):
	// when every sibling has an explicit, non-sequential number,
	// the whole group is renumbered sequentially
	// starting from the first literal number.
	RenumberLists bool
	// AttachLooseContent folds a paragraph that follows a list item
	// across a single blank line into that item's content
	// instead of ending the list.
	AttachLooseContent bool
}

// DefaultConfig returns the configuration used by [Parse]:
// default ceilings, every feature enabled, and list renumbering on.
func DefaultConfig() Config {
	return Config{
		MaxNestingDepth:  DefaultMaxNestingDepth,
		MaxContentLength: DefaultMaxContentLength,
		MaxInlineLength:  DefaultMaxInlineLength,
		Features:         AllFeatures(),
		RenumberLists:    true,
	}
}

func (cfg Config) normalized() Config {
	if cfg.MaxNestingDepth <= 0 {
		cfg.MaxNestingDepth = DefaultMaxNestingDepth
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = DefaultMaxContentLength
	}
	if cfg.MaxInlineLength <= 0 {
		cfg.MaxInlineLength = DefaultMaxInlineLength
	}
	return cfg
}

// A Document is a fully parsed Markdown document.
// Its embedded [Block] is the root of the tree;
// the maps hold the reference definitions
// extracted during the resolver pre-pass.
type Document struct {
	Block

	Links     ReferenceMap
	Footnotes FootnoteMap

	// Truncated reports whether any size ceiling cut the input short.
	Truncated bool
}

// A Parser converts Markdown text into a [Document]
// according to its configuration.
// The zero value parses with zero-value feature flags
// and default ceilings; most callers want [DefaultConfig].
//
// A Parser performs no I/O and keeps no state between calls,
// so a single Parser is safe for concurrent use.
type Parser struct {
	Config Config
}

// Parse converts Markdown text into a [Document]
// using [DefaultConfig].
// It never returns an error:
// malformed constructs degrade to plain text nodes.
func Parse(source string) *Document {
	p := &Parser{Config: DefaultConfig()}
	return p.Parse(source)
}

// Parse converts Markdown text into a [Document].
// The same input and configuration always produce the same tree.
func (p *Parser) Parse(source string) *Document {
	cfg := p.Config.normalized()

	// NUL bytes confuse downstream text APIs.
	// Replace with the Unicode replacement character.
	if strings.IndexByte(source, 0) >= 0 {
		source = strings.ReplaceAll(source, "\x00", "�")
	}

	truncated := false
	if len(source) > cfg.MaxContentLength {
		source = truncateString(source, cfg.MaxContentLength) + TruncationMarker
		truncated = true
	}

	lines := splitLines(source)
	links, footnotes, content := extractDefinitions(lines, cfg.Features)
	bp := &blockParser{
		config:    cfg,
		links:     links,
		footnotes: footnotes,
	}
	doc := &Document{
		Block: Block{
			kind:     documentKind,
			children: bp.parseBlocks(content, 0),
		},
		Links:     links,
		Footnotes: footnotes,
		Truncated: truncated || bp.truncated,
	}
	return doc
}

// ParseInline tokenizes a single text span into inline nodes
// without resolving reference links or footnotes.
// It is intended for auxiliary content such as table cells.
func (p *Parser) ParseInline(text string) []*Inline {
	cfg := p.Config.normalized()
	ip := &inlineParser{config: cfg}
	return ip.parse(text)
}

// splitLines splits source into lines,
// accepting LF, CRLF, and lone CR terminators.
func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	return strings.Split(source, "\n")
}

// truncateString cuts s to at most n bytes
// without splitting a UTF-8 sequence.
func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xc0 == 0x80 {
		n--
	}
	return s[:n]
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
