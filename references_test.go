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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractDefinitions(t *testing.T) {
	lines := []string{
		"intro",
		"[api]: https://api.example.com",
		"middle",
		"[^1]: A footnote.",
		"outro",
	}
	links, footnotes, remaining := extractDefinitions(lines, AllFeatures())

	wantLinks := ReferenceMap{"api": "https://api.example.com"}
	if diff := cmp.Diff(wantLinks, links); diff != "" {
		t.Errorf("links (-want +got):\n%s", diff)
	}
	wantFootnotes := FootnoteMap{"1": "A footnote."}
	if diff := cmp.Diff(wantFootnotes, footnotes); diff != "" {
		t.Errorf("footnotes (-want +got):\n%s", diff)
	}
	wantRemaining := []string{"intro", "middle", "outro"}
	if diff := cmp.Diff(wantRemaining, remaining); diff != "" {
		t.Errorf("remaining lines (-want +got):\n%s", diff)
	}
}

func TestExtractDefinitionsFirstWins(t *testing.T) {
	lines := []string{
		"[id]: first",
		"[id]: second",
		"[ID]: third",
	}
	links, _, _ := extractDefinitions(lines, AllFeatures())
	want := ReferenceMap{"id": "first"}
	if diff := cmp.Diff(want, links); diff != "" {
		t.Errorf("links (-want +got):\n%s", diff)
	}
}

func TestExtractDefinitionsFoldsLabels(t *testing.T) {
	lines := []string{"[Straße]: u"}
	links, _, _ := extractDefinitions(lines, AllFeatures())
	if url, ok := links.Lookup("STRASSE"); !ok || url != "u" {
		t.Errorf("links.Lookup(\"STRASSE\") = %q, %t; want \"u\", true", url, ok)
	}
	if !links.MatchReference("strasse") {
		t.Error("links.MatchReference(\"strasse\") = false; want true")
	}
	if links.MatchReference("other") {
		t.Error("links.MatchReference(\"other\") = true; want false")
	}
}

func TestExtractDefinitionsFootnotesDisabled(t *testing.T) {
	lines := []string{"[^1]: kept as text"}
	links, footnotes, remaining := extractDefinitions(lines, Features{})
	if len(links) != 0 || len(footnotes) != 0 {
		t.Errorf("links = %v, footnotes = %v; want empty", links, footnotes)
	}
	if diff := cmp.Diff(lines, remaining); diff != "" {
		t.Errorf("remaining lines (-want +got):\n%s", diff)
	}
}

func TestExtractDefinitionsIgnoresIndentedCode(t *testing.T) {
	lines := []string{"    [id]: not a definition"}
	links, _, remaining := extractDefinitions(lines, AllFeatures())
	if len(links) != 0 {
		t.Errorf("links = %v; want empty", links)
	}
	if diff := cmp.Diff(lines, remaining); diff != "" {
		t.Errorf("remaining lines (-want +got):\n%s", diff)
	}
}
