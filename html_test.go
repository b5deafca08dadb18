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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

var htmlTests = []struct {
	name   string
	source string
	want   string
}{
	{
		name:   "Heading",
		source: "# Hi\n",
		want:   "<h1>Hi</h1>",
	},
	{
		name:   "Paragraph",
		source: "Hello **world**!\n",
		want:   "<p>Hello <strong>world</strong>!</p>",
	},
	{
		name:   "Escaping",
		source: "a < b & \"c\"\n",
		want:   "<p>a &lt; b &amp; &quot;c&quot;</p>",
	},
	{
		name:   "CodeBlock",
		source: "```go\nx := 1\n```\n",
		want:   "<pre><code class=\"language-go\">x := 1\n</code></pre>",
	},
	{
		name:   "BlockQuote",
		source: "> hi\n",
		want:   "<blockquote><p>hi</p></blockquote>",
	},
	{
		name:   "NestedBlockQuote",
		source: "> > hi\n",
		want:   "<blockquote><blockquote><p>hi</p></blockquote></blockquote>",
	},
	{
		name:   "BulletList",
		source: "- a\n- b\n",
		want:   "<ul><li>a</li><li>b</li></ul>",
	},
	{
		name:   "NestedList",
		source: "- a\n  - b\n",
		want:   "<ul><li>a<ul><li>b</li></ul></li></ul>",
	},
	{
		name:   "OrderedList",
		source: "1. a\n2. b\n",
		want:   "<ol><li>a</li><li>b</li></ol>",
	},
	{
		name:   "OrderedListStart",
		source: "3. a\n4. b\n",
		want:   "<ol start=\"3\"><li>a</li><li>b</li></ol>",
	},
	{
		name:   "TaskList",
		source: "- [x] done\n- [ ] todo\n",
		want: "<ul>" +
			"<li><input type=\"checkbox\" disabled checked> done</li>" +
			"<li><input type=\"checkbox\" disabled> todo</li>" +
			"</ul>",
	},
	{
		name:   "ThematicBreak",
		source: "---\n",
		want:   "<hr>",
	},
	{
		name:   "ImageBlock",
		source: "![a](u.png)\n",
		want:   "<img src=\"u.png\" alt=\"a\">",
	},
	{
		name:   "Table",
		source: "| a | b |\n| --- | ---: |\n| 1 | 2 |\n",
		want: "<table>" +
			"<thead><tr><th>a</th><th style=\"text-align: right\">b</th></tr></thead>" +
			"<tbody><tr><td>1</td><td style=\"text-align: right\">2</td></tr></tbody>" +
			"</table>",
	},
	{
		name:   "Footnote",
		source: "Hi[^1].\n\n[^1]: note text\n",
		want:   "<p>Hi<sup title=\"note text\">1</sup>.</p>",
	},
	{
		name:   "HardBreak",
		source: "a  \nb\n",
		want:   "<p>a<br>\nb</p>",
	},
	{
		name:   "SoftBreak",
		source: "a\nb\n",
		want:   "<p>a\nb</p>",
	},
	{
		name:   "LinkAttributeEscaping",
		source: "[x](u\"v)\n",
		want:   "<p><a href=\"u&quot;v\">x</a></p>",
	},
	{
		name:   "InlineMath",
		source: "$x$\n",
		want:   "<p><code class=\"language-math\">x</code></p>",
	},
	{
		name:   "MultipleBlocks",
		source: "# A\n\nB\n",
		want:   "<h1>A</h1>\n<p>B</p>",
	},
}

func TestRenderHTML(t *testing.T) {
	for _, test := range htmlTests {
		t.Run(test.name, func(t *testing.T) {
			buf := new(strings.Builder)
			if err := RenderHTML(buf, Parse(test.source)); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, buf.String()); diff != "" {
				t.Errorf("RenderHTML(%q) (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestRenderHTMLWellFormed(t *testing.T) {
	for _, test := range htmlTests {
		got := string(AppendHTML(nil, Parse(test.source)))
		if _, err := html.Parse(strings.NewReader(got)); err != nil {
			t.Errorf("output for %q does not parse as HTML: %v", test.source, err)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRenderHTMLWriteError(t *testing.T) {
	err := RenderHTML(failingWriter{}, Parse("# Hi\n"))
	if err == nil {
		t.Fatal("RenderHTML on a failing writer returned nil")
	}
	if !strings.Contains(err.Error(), "render markdown to html") {
		t.Errorf("error = %q", err)
	}
}
