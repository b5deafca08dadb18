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
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// inlineParser tokenizes text spans into inline trees.
type inlineParser struct {
	config    Config
	links     ReferenceMap
	footnotes FootnoteMap
	depth     int
	truncated bool
}

// inlineRule is one entry of the precedence-ordered pattern table.
// Guards reject matches the pattern alone cannot
// (Go regexp has no lookbehind);
// a rejected match resumes the search one byte further on.
// Builders return ok=false to degrade the match to literal text.
type inlineRule struct {
	name    string
	pattern string
	re      *regexp.Regexp
	when    func(Features) bool
	guard   func(text string, loc []int) bool
	build   func(p *inlineParser, text string, loc []int) (*Inline, bool)
}

// inlineRules compiles the pattern table on first use.
// A pattern that fails to compile is excluded from the table
// rather than surfacing an error per parse.
// Assigned in init: the builders call scan,
// which calls back into this table.
var inlineRules func() []inlineRule

func init() {
	inlineRules = sync.OnceValue(compileInlineRules)
}

func compileInlineRules() []inlineRule {
	specs := []inlineRule{
		{
			name:    "image",
			pattern: `!\[([^\]]*)\]\(([^\n]*)\)`,
			build:   buildImage,
		},
		{
			name:    "link",
			pattern: `\[([^\]]+)\]\(([^\n]*)\)`,
			build:   buildLink,
		},
		{
			name:    "referenceLink",
			pattern: `\[([^\]]+)\]\[([^\]]*)\]`,
			build:   buildReferenceLink,
		},
		{
			name:    "footnoteReference",
			pattern: `\[\^([^\]]+)\]`,
			when:    func(f Features) bool { return f.Footnotes },
			build:   buildFootnoteReference,
		},
		{
			name:    "strongEmphasis",
			pattern: `\*\*\*(.+?)\*\*\*`,
			build:   buildStrongEmphasis,
		},
		{
			name:    "strong",
			pattern: `\*\*(.+?)\*\*`,
			build:   wrapBuilder(StrongKind),
		},
		{
			name:    "strongUnderscore",
			pattern: `__(.+?)__`,
			guard:   wordBoundaryGuard,
			build:   wrapBuilder(StrongKind),
		},
		{
			name:    "emphasis",
			pattern: `\*([^*]+)\*`,
			guard:   starGuard,
			build:   wrapBuilder(EmphasisKind),
		},
		{
			name:    "emphasisUnderscore",
			pattern: `_([^_]+)_`,
			guard:   wordBoundaryGuard,
			build:   wrapBuilder(EmphasisKind),
		},
		{
			name:    "strikethrough",
			pattern: `~~(.+?)~~`,
			build:   wrapBuilder(StrikethroughKind),
		},
		{
			name:    "codeSpan",
			pattern: "`([^`]+)`",
			build:   buildCodeSpan,
		},
		{
			name:    "math",
			pattern: `\$([^$\n]+)\$`,
			when:    func(f Features) bool { return f.Math },
			guard:   mathGuard,
			build:   buildMath,
		},
		{
			name:    "hardBreak",
			pattern: ` {2,}\n`,
			build:   buildHardBreak,
		},
		{
			name:    "softBreak",
			pattern: `\n`,
			build:   buildSoftBreak,
		},
	}
	rules := make([]inlineRule, 0, len(specs))
	for _, r := range specs {
		re, err := regexp.Compile(r.pattern)
		if err != nil {
			continue
		}
		r.re = re
		rules = append(rules, r)
	}
	return rules
}

// parse tokenizes a text span,
// truncating input beyond the configured inline ceiling.
func (p *inlineParser) parse(text string) []*Inline {
	if len(text) > p.config.MaxInlineLength {
		text = truncateString(text, p.config.MaxInlineLength) + TruncationMarker
		p.truncated = true
	}
	return p.scan(text)
}

// parseNested tokenizes the content of a matched span
// (emphasis, link text), bounding recursion depth.
func (p *inlineParser) parseNested(text string) []*Inline {
	if p.depth >= p.config.MaxNestingDepth {
		return []*Inline{{kind: TextKind, text: text}}
	}
	p.depth++
	defer func() { p.depth-- }()
	return p.scan(text)
}

// scan repeatedly finds the earliest match among all rules.
// Each candidate is matched against the entire remaining text;
// the smallest start offset wins,
// and ties go to the rule declared earlier in the table.
func (p *inlineParser) scan(text string) []*Inline {
	rules := inlineRules()
	var out []*Inline
	rest := text
	for rest != "" {
		bestRule := -1
		var bestLoc []int
		for ri := range rules {
			rule := &rules[ri]
			if rule.when != nil && !rule.when(p.config.Features) {
				continue
			}
			loc := findMatch(rule, rest)
			if loc == nil {
				continue
			}
			if bestRule < 0 || loc[0] < bestLoc[0] {
				bestRule, bestLoc = ri, loc
			}
		}
		if bestRule < 0 {
			out = appendText(out, rest)
			break
		}
		out = appendText(out, rest[:bestLoc[0]])
		if node, ok := rules[bestRule].build(p, rest, bestLoc); ok {
			out = append(out, node)
		} else {
			out = appendText(out, rest[bestLoc[0]:bestLoc[1]])
		}
		rest = rest[bestLoc[1]:]
	}
	return out
}

// findMatch locates the first match of a rule that passes its guard.
func findMatch(rule *inlineRule, text string) []int {
	for off := 0; off <= len(text); {
		loc := rule.re.FindStringSubmatchIndex(text[off:])
		if loc == nil {
			return nil
		}
		for k := range loc {
			if loc[k] >= 0 {
				loc[k] += off
			}
		}
		if rule.guard == nil || rule.guard(text, loc) {
			return loc
		}
		off = loc[0] + 1
	}
	return nil
}

// appendText adds literal text, coalescing adjacent text nodes.
func appendText(out []*Inline, s string) []*Inline {
	if s == "" {
		return out
	}
	if n := len(out); n > 0 && out[n-1].kind == TextKind {
		out[n-1].text += s
		return out
	}
	return append(out, &Inline{kind: TextKind, text: s})
}

func group(text string, loc []int, n int) string {
	start, end := loc[2*n], loc[2*n+1]
	if start < 0 {
		return ""
	}
	return text[start:end]
}

// starGuard rejects '*' emphasis adjacent to another '*'.
func starGuard(text string, loc []int) bool {
	if loc[0] > 0 && text[loc[0]-1] == '*' {
		return false
	}
	if loc[1] < len(text) && text[loc[1]] == '*' {
		return false
	}
	return true
}

// wordBoundaryGuard rejects underscore emphasis
// embedded inside a word (snake_case identifiers).
func wordBoundaryGuard(text string, loc []int) bool {
	if loc[0] > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:loc[0]]); isWordRune(r) {
			return false
		}
	}
	if loc[1] < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[loc[1]:]); isWordRune(r) {
			return false
		}
	}
	return true
}

// mathGuard rejects dollar pairs whose content looks like prose
// ("$5 and $6"), requiring the span to hug its delimiters.
func mathGuard(text string, loc []int) bool {
	inner := group(text, loc, 1)
	return !strings.HasPrefix(inner, " ") && !strings.HasSuffix(inner, " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func buildImage(p *inlineParser, text string, loc []int) (*Inline, bool) {
	return &Inline{
		kind: ImageKind,
		text: group(text, loc, 1),
		url:  group(text, loc, 2),
	}, true
}

func buildLink(p *inlineParser, text string, loc []int) (*Inline, bool) {
	return &Inline{
		kind:     LinkKind,
		url:      group(text, loc, 2),
		children: p.parseNested(group(text, loc, 1)),
	}, true
}

func buildReferenceLink(p *inlineParser, text string, loc []int) (*Inline, bool) {
	label := group(text, loc, 1)
	id := group(text, loc, 2)
	if id == "" {
		// Collapsed form "[text][]" uses the text as the label.
		id = label
	}
	url, ok := p.links.Lookup(id)
	if !ok {
		return nil, false
	}
	return &Inline{
		kind:     LinkKind,
		url:      url,
		children: p.parseNested(label),
	}, true
}

func buildFootnoteReference(p *inlineParser, text string, loc []int) (*Inline, bool) {
	label := group(text, loc, 1)
	note, ok := p.footnotes[label]
	if !ok {
		return nil, false
	}
	return &Inline{kind: FootnoteReferenceKind, text: label, note: note}, true
}

func buildStrongEmphasis(p *inlineParser, text string, loc []int) (*Inline, bool) {
	return &Inline{
		kind: StrongKind,
		children: []*Inline{{
			kind:     EmphasisKind,
			children: p.parseNested(group(text, loc, 1)),
		}},
	}, true
}

func wrapBuilder(kind InlineKind) func(*inlineParser, string, []int) (*Inline, bool) {
	return func(p *inlineParser, text string, loc []int) (*Inline, bool) {
		return &Inline{
			kind:     kind,
			children: p.parseNested(group(text, loc, 1)),
		}, true
	}
}

func buildCodeSpan(p *inlineParser, text string, loc []int) (*Inline, bool) {
	return &Inline{kind: CodeSpanKind, text: group(text, loc, 1)}, true
}

func buildMath(p *inlineParser, text string, loc []int) (*Inline, bool) {
	return &Inline{kind: MathKind, text: group(text, loc, 1)}, true
}

func buildHardBreak(p *inlineParser, text string, loc []int) (*Inline, bool) {
	return &Inline{kind: HardLineBreakKind}, true
}

func buildSoftBreak(p *inlineParser, text string, loc []int) (*Inline, bool) {
	return &Inline{kind: SoftLineBreakKind}, true
}

// InlineMarkdown renders an inline node sequence back to
// Markdown-equivalent text.
// Re-parsing the result reproduces an equivalent node sequence.
func InlineMarkdown(inlines []*Inline) string {
	sb := new(strings.Builder)
	for _, inline := range inlines {
		appendInlineMarkdown(sb, inline)
	}
	return sb.String()
}

func appendInlineMarkdown(sb *strings.Builder, inline *Inline) {
	writeChildren := func() {
		for _, c := range inline.Children() {
			appendInlineMarkdown(sb, c)
		}
	}
	switch inline.Kind() {
	case TextKind:
		sb.WriteString(inline.text)
	case StrongKind:
		sb.WriteString("**")
		writeChildren()
		sb.WriteString("**")
	case EmphasisKind:
		sb.WriteString("*")
		writeChildren()
		sb.WriteString("*")
	case StrikethroughKind:
		sb.WriteString("~~")
		writeChildren()
		sb.WriteString("~~")
	case CodeSpanKind:
		sb.WriteString("`")
		sb.WriteString(inline.text)
		sb.WriteString("`")
	case MathKind:
		sb.WriteString("$")
		sb.WriteString(inline.text)
		sb.WriteString("$")
	case LinkKind:
		sb.WriteString("[")
		writeChildren()
		sb.WriteString("](")
		sb.WriteString(inline.url)
		sb.WriteString(")")
	case ImageKind:
		sb.WriteString("![")
		sb.WriteString(inline.text)
		sb.WriteString("](")
		sb.WriteString(inline.url)
		sb.WriteString(")")
	case FootnoteReferenceKind:
		sb.WriteString("[^")
		sb.WriteString(inline.text)
		sb.WriteString("]")
	case SoftLineBreakKind:
		sb.WriteString("\n")
	case HardLineBreakKind:
		sb.WriteString("  \n")
	}
}
