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
	"regexp"
	"strconv"
	"strings"
)

var (
	headingPattern        = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	listMarkerPattern     = regexp.MustCompile(`^([ \t]*)([-*+]|\d{1,9}[.)])\s+(.*)$`)
	taskMarkerPattern     = regexp.MustCompile(`^\[([ xX])\]\s*(.*)$`)
	tableSeparatorPattern = regexp.MustCompile(`^\|?[\s:|\-]+\|?$`)
	thematicBreakPattern  = regexp.MustCompile(`^\s*[-*_]{3,}\s*$`)
	imageBlockPattern     = regexp.MustCompile(`^!\[([^\]]*)\]\((.*)\)$`)
)

// blockParser carries one parse invocation's configuration and
// reference tables through the recursive descent.
type blockParser struct {
	config    Config
	links     ReferenceMap
	footnotes FootnoteMap
	listDepth int
	truncated bool
}

type blockStart struct {
	name  string
	parse func(*blockParser, []string, int, int) (*Block, int)
}

// blockStarts lists the block recognizers in precedence order.
// The first recognizer to consume lines wins.
// Every recognizer consumes at least one line on success,
// so the cursor always advances.
// Filled in by init: the recognizers call parseBlocks,
// which reads this table.
var blockStarts []blockStart

func init() {
	blockStarts = []blockStart{
		{"heading", (*blockParser).parseHeading},
		{"fencedCode", (*blockParser).parseFencedCode},
		{"mathBlock", (*blockParser).parseMathBlock},
		{"indentedCode", (*blockParser).parseIndentedCode},
		{"blockQuote", (*blockParser).parseBlockQuote},
		{"list", (*blockParser).parseList},
		{"table", (*blockParser).parseTable},
		{"thematicBreak", (*blockParser).parseThematicBreak},
		{"imageBlock", (*blockParser).parseImageBlock},
		{"paragraph", (*blockParser).parseParagraph},
	}
}

// parseBlocks consumes the line sequence and produces block nodes.
// At the nesting depth bound it emits a placeholder paragraph
// instead of recursing further.
func (p *blockParser) parseBlocks(lines []string, depth int) []Node {
	if depth >= p.config.MaxNestingDepth {
		p.truncated = true
		return []Node{sentinelParagraph().AsNode()}
	}
	var nodes []Node
	for i := 0; i < len(lines); {
		if isBlank(lines[i]) {
			i++
			continue
		}
		var node *Block
		consumed := 0
		for _, start := range blockStarts {
			if node, consumed = start.parse(p, lines, i, depth); consumed > 0 {
				break
			}
		}
		if consumed < 1 {
			// A zero-length advance would loop forever.
			consumed = 1
		}
		if node != nil {
			nodes = append(nodes, node.AsNode())
		}
		i += consumed
	}
	return nodes
}

func sentinelParagraph() *Block {
	return &Block{
		kind: ParagraphKind,
		children: []Node{(&Inline{
			kind: TextKind,
			text: depthSentinel,
		}).AsNode()},
	}
}

// inline tokenizes a text span and wraps the result as child nodes.
func (p *blockParser) inline(text string) []Node {
	ip := &inlineParser{
		config:    p.config,
		links:     p.links,
		footnotes: p.footnotes,
	}
	spans := ip.parse(text)
	if ip.truncated {
		p.truncated = true
	}
	nodes := make([]Node, 0, len(spans))
	for _, s := range spans {
		nodes = append(nodes, s.AsNode())
	}
	return nodes
}

func (p *blockParser) parseHeading(lines []string, i, depth int) (*Block, int) {
	m := headingPattern.FindStringSubmatch(lines[i])
	if m == nil {
		return nil, 0
	}
	return &Block{
		kind:     HeadingKind,
		level:    len(m[1]),
		children: p.inline(strings.TrimSpace(m[2])),
	}, 1
}

func (p *blockParser) parseFencedCode(lines []string, i, depth int) (*Block, int) {
	trimmed := strings.TrimSpace(lines[i])
	if !strings.HasPrefix(trimmed, "```") {
		return nil, 0
	}
	language := strings.TrimSpace(strings.TrimLeft(trimmed, "`"))
	var body []string
	consumed := 1
	for j := i + 1; j < len(lines); j++ {
		consumed++
		if isClosingFence(lines[j]) {
			return codeBlock(language, body), consumed
		}
		body = append(body, lines[j])
	}
	// An unterminated fence closes implicitly at end of input.
	return codeBlock(language, body), consumed
}

func isClosingFence(line string) bool {
	t := strings.TrimSpace(line)
	return len(t) >= 3 && strings.Trim(t, "`") == ""
}

func (p *blockParser) parseMathBlock(lines []string, i, depth int) (*Block, int) {
	if !p.config.Features.Math || strings.TrimSpace(lines[i]) != "$$" {
		return nil, 0
	}
	var body []string
	consumed := 1
	for j := i + 1; j < len(lines); j++ {
		consumed++
		if strings.TrimSpace(lines[j]) == "$$" {
			return codeBlock("math", body), consumed
		}
		body = append(body, lines[j])
	}
	return codeBlock("math", body), consumed
}

func codeBlock(language string, body []string) *Block {
	return &Block{
		kind:     CodeBlockKind,
		language: language,
		code:     strings.Join(body, "\n"),
	}
}

func (p *blockParser) parseIndentedCode(lines []string, i, depth int) (*Block, int) {
	if isBlank(lines[i]) || !isIndentedCodeLine(lines[i]) {
		return nil, 0
	}
	var body []string
	j := i
	for ; j < len(lines); j++ {
		if isBlank(lines[j]) {
			// Interior blank lines become empty code lines.
			body = append(body, "")
			continue
		}
		if !isIndentedCodeLine(lines[j]) {
			break
		}
		body = append(body, dedentCodeLine(lines[j]))
	}
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
		j--
	}
	return codeBlock("", body), j - i
}

func isIndentedCodeLine(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func dedentCodeLine(line string) string {
	if strings.HasPrefix(line, "    ") {
		return line[4:]
	}
	return strings.TrimPrefix(line, "\t")
}

func (p *blockParser) parseBlockQuote(lines []string, i, depth int) (*Block, int) {
	if !strings.HasPrefix(strings.TrimSpace(lines[i]), ">") {
		return nil, 0
	}
	var inner []string
	maxDepth := 1
	j := i
	for ; j < len(lines); j++ {
		t := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(t, ">") {
			break
		}
		stripped, d := stripQuoteMarkers(t)
		if d > maxDepth {
			maxDepth = d
		}
		inner = append(inner, stripped)
	}
	return &Block{
		kind:     BlockQuoteKind,
		level:    maxDepth,
		children: p.parseBlocks(inner, depth+1),
	}, j - i
}

// stripQuoteMarkers removes every leading '>' marker
// (each optionally followed by one space)
// and reports how many were present.
func stripQuoteMarkers(line string) (string, int) {
	depth := 0
	for strings.HasPrefix(line, ">") {
		depth++
		line = strings.TrimPrefix(line, ">")
		line = strings.TrimPrefix(line, " ")
	}
	return line, depth
}

// listMarker is the parsed form of a list item's first line.
type listMarker struct {
	indentWidth int
	style       ListStyle
	number      int // literal source number, or -1
	task        bool
	checked     bool
	rest        string
}

func matchListMarker(line string, features Features) *listMarker {
	m := listMarkerPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	marker := &listMarker{
		indentWidth: indentWidth(m[1]),
		style:       BulletList,
		number:      -1,
		rest:        m[3],
	}
	if c := m[2][0]; c >= '0' && c <= '9' {
		n, err := strconv.Atoi(m[2][:len(m[2])-1])
		if err != nil {
			return nil
		}
		marker.style = OrderedList
		marker.number = n
	} else if features.TaskLists {
		if tm := taskMarkerPattern.FindStringSubmatch(m[3]); tm != nil {
			marker.style = TaskList
			marker.task = true
			marker.checked = tm[1] == "x" || tm[1] == "X"
			marker.rest = tm[2]
		}
	}
	return marker
}

func indentWidth(ws string) int {
	w := 0
	for _, c := range ws {
		if c == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// sameListFamily reports whether two marker styles
// belong in one list: ordered markers only group with ordered,
// bullet and task markers group together.
func sameListFamily(a, b ListStyle) bool {
	return (a == OrderedList) == (b == OrderedList)
}

type listItem struct {
	number  int
	task    bool
	checked bool
	content []string
}

func (p *blockParser) parseList(lines []string, i, depth int) (*Block, int) {
	first := matchListMarker(lines[i], p.config.Features)
	if first == nil {
		return nil, 0
	}
	baseIndent := first.indentWidth
	style := first.style
	var items []*listItem
	j := i
collect:
	for j < len(lines) {
		line := lines[j]
		if isBlank(line) {
			if j+1 >= len(lines) || isBlank(lines[j+1]) {
				break
			}
			next := matchListMarker(lines[j+1], p.config.Features)
			switch {
			case next != nil && next.indentWidth >= baseIndent && sameListFamily(next.style, style):
				// Blank line between items keeps the list together.
				j++
			case p.config.AttachLooseContent && len(items) > 0 &&
				next == nil && !headingPattern.MatchString(lines[j+1]):
				item := items[len(items)-1]
				item.content = append(item.content, "")
				j++
			default:
				break collect
			}
			continue
		}
		m := matchListMarker(line, p.config.Features)
		switch {
		case m != nil && m.indentWidth < baseIndent:
			break collect
		case m != nil && m.indentWidth-baseIndent <= 1:
			if !sameListFamily(m.style, style) {
				break collect
			}
			if m.style == TaskList {
				style = TaskList
			}
			items = append(items, &listItem{
				number:  m.number,
				task:    m.task,
				checked: m.checked,
				content: []string{m.rest},
			})
			j++
		case len(items) == 0:
			break collect
		case headingPattern.MatchString(line):
			// Headings end the item; blockquote markers and
			// everything else fold into its content.
			break collect
		default:
			item := items[len(items)-1]
			item.content = append(item.content, line)
			j++
		}
	}
	if len(items) == 0 {
		return nil, 0
	}

	if style == OrderedList && p.config.RenumberLists {
		renumberItems(items)
	}

	list := &Block{kind: ListKind, style: style}
	for _, it := range items {
		dedentContinuations(it.content, baseIndent)
		item := &Block{
			kind:    ListItemKind,
			number:  it.number,
			task:    it.task,
			checked: it.checked,
			indent:  p.listDepth,
		}
		p.listDepth++
		item.children = p.parseBlocks(it.content, depth+1)
		p.listDepth--
		list.children = append(list.children, item.AsNode())
	}
	return list, j - i
}

// dedentContinuations strips the common leading indentation
// from an item's continuation lines.
// Nested list markers then parse relative to the item.
// The shift is capped at the item's content indent;
// indentation past the cap survives as indented code.
func dedentContinuations(content []string, baseIndent int) {
	if len(content) < 2 {
		return
	}
	shift := -1
	for _, line := range content[1:] {
		if isBlank(line) {
			continue
		}
		if w := leadingIndentWidth(line); shift < 0 || w < shift {
			shift = w
		}
	}
	if limit := baseIndent + 2; shift > limit {
		shift = limit
	}
	if shift < 1 {
		return
	}
	for k, line := range content[1:] {
		content[1+k] = stripIndent(line, shift)
	}
}

func leadingIndentWidth(line string) int {
	w := 0
	for _, c := range line {
		switch c {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

// stripIndent removes leading whitespace up to width columns.
// A tab counts as four columns and is consumed whole.
func stripIndent(line string, width int) string {
	i := 0
	for i < len(line) && width > 0 {
		switch line[i] {
		case ' ':
			width--
		case '\t':
			width -= 4
		default:
			return line[i:]
		}
		i++
	}
	return line[i:]
}

// renumberItems repairs ordered lists whose literal numbers
// do not increment, renumbering the whole sibling group
// sequentially from the first literal number.
func renumberItems(items []*listItem) {
	if len(items) < 2 {
		return
	}
	sequential := true
	for k := 1; k < len(items); k++ {
		if items[k].number != items[k-1].number+1 {
			sequential = false
			break
		}
	}
	if sequential {
		return
	}
	start := items[0].number
	for k := range items {
		items[k].number = start + k
	}
}

func (p *blockParser) parseTable(lines []string, i, depth int) (*Block, int) {
	if !p.config.Features.Tables || i+1 >= len(lines) || !strings.Contains(lines[i], "|") {
		return nil, 0
	}
	sep := strings.TrimSpace(lines[i+1])
	if sep == "" || !strings.Contains(sep, "-") || !tableSeparatorPattern.MatchString(sep) {
		return nil, 0
	}
	headers := splitTableRow(lines[i])
	if len(headers) == 0 {
		return nil, 0
	}
	consumed := 2
	var rows [][]string
	for j := i + 2; j < len(lines); j++ {
		if !strings.Contains(lines[j], "|") {
			break
		}
		rows = append(rows, padCells(splitTableRow(lines[j]), len(headers)))
		consumed++
	}
	return &Block{
		kind: TableKind,
		table: &TableData{
			Headers:    headers,
			Alignments: tableAlignments(sep, len(headers)),
			Rows:       rows,
		},
	}, consumed
}

// splitTableRow splits a pipe-delimited row into trimmed cells,
// stripping optional outer pipes.
func splitTableRow(line string) []string {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	cells := strings.Split(t, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func padCells(cells []string, n int) []string {
	for len(cells) < n {
		cells = append(cells, "")
	}
	return cells[:n]
}

// tableAlignments derives column alignment from colon placement
// in the separator line: ":-:" centers, "-:" right-aligns,
// anything else is left.
func tableAlignments(sep string, columns int) []Alignment {
	cells := splitTableRow(sep)
	aligns := make([]Alignment, columns)
	for i := 0; i < columns && i < len(cells); i++ {
		c := cells[i]
		switch {
		case strings.HasPrefix(c, ":") && strings.HasSuffix(c, ":"):
			aligns[i] = AlignCenter
		case strings.HasSuffix(c, ":"):
			aligns[i] = AlignRight
		}
	}
	return aligns
}

func (p *blockParser) parseThematicBreak(lines []string, i, depth int) (*Block, int) {
	if !thematicBreakPattern.MatchString(lines[i]) {
		return nil, 0
	}
	return &Block{kind: ThematicBreakKind}, 1
}

func (p *blockParser) parseImageBlock(lines []string, i, depth int) (*Block, int) {
	trimmed := strings.TrimSpace(lines[i])
	if !strings.HasPrefix(trimmed, "![") {
		return nil, 0
	}
	m := imageBlockPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, 0
	}
	return &Block{kind: ImageBlockKind, alt: m[1], url: m[2]}, 1
}

func (p *blockParser) parseParagraph(lines []string, i, depth int) (*Block, int) {
	j := i + 1
	for ; j < len(lines); j++ {
		if isBlank(lines[j]) || p.startsBlock(lines, j) {
			break
		}
	}
	collected := make([]string, 0, j-i)
	for _, line := range lines[i:j] {
		// Keep trailing spaces: two of them before a newline
		// form a hard break.
		collected = append(collected, strings.TrimLeft(line, " \t"))
	}
	return &Block{
		kind:     ParagraphKind,
		children: p.inline(strings.Join(collected, "\n")),
	}, j - i
}

// startsBlock reports whether the line at index j
// would be claimed by a recognizer above the paragraph fallback.
func (p *blockParser) startsBlock(lines []string, j int) bool {
	line := lines[j]
	trimmed := strings.TrimSpace(line)
	switch {
	case headingPattern.MatchString(line),
		strings.HasPrefix(trimmed, "```"),
		p.config.Features.Math && trimmed == "$$",
		isIndentedCodeLine(line),
		strings.HasPrefix(trimmed, ">"),
		matchListMarker(line, p.config.Features) != nil,
		thematicBreakPattern.MatchString(line),
		strings.HasPrefix(trimmed, "![") && imageBlockPattern.MatchString(trimmed):
		return true
	}
	if p.config.Features.Tables && strings.Contains(line, "|") && j+1 < len(lines) {
		sep := strings.TrimSpace(lines[j+1])
		if sep != "" && strings.Contains(sep, "-") && tableSeparatorPattern.MatchString(sep) {
			return true
		}
	}
	return false
}
