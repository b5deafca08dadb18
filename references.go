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

	"golang.org/x/text/cases"
)

// ReferenceMap is a mapping of case-folded link labels to destinations,
// built from "[id]: url" definition lines.
type ReferenceMap map[string]string

// MatchReference reports whether the label appears in the map.
// The label is folded before lookup.
func (m ReferenceMap) MatchReference(label string) bool {
	_, ok := m[foldLabel(label)]
	return ok
}

// Lookup returns the destination for a label, folding it first.
func (m ReferenceMap) Lookup(label string) (url string, ok bool) {
	url, ok = m[foldLabel(label)]
	return
}

// FootnoteMap is a mapping of footnote labels to definition text,
// built from "[^id]: text" definition lines.
// Unlike link labels, footnote labels are matched as written.
type FootnoteMap map[string]string

var (
	linkDefPattern     = regexp.MustCompile(`^ {0,3}\[([^\^\]][^\]]*)\]:\s*(\S+)\s*$`)
	footnoteDefPattern = regexp.MustCompile(`^ {0,3}\[\^([^\]]+)\]:\s*(.+)$`)
)

// foldLabel normalizes a link label for case-insensitive lookup.
// Unicode case folding handles labels beyond ASCII
// (for example "Straße" matching "STRASSE").
func foldLabel(label string) string {
	return cases.Fold().String(strings.TrimSpace(label))
}

// extractDefinitions scans each line once for link reference and
// footnote definitions.
// Matching lines are consumed and recorded;
// all other lines pass through in their original order.
// On duplicate labels the first definition in source order wins.
func extractDefinitions(lines []string, features Features) (ReferenceMap, FootnoteMap, []string) {
	links := make(ReferenceMap)
	footnotes := make(FootnoteMap)
	remaining := make([]string, 0, len(lines))
	for _, line := range lines {
		if features.Footnotes {
			if m := footnoteDefPattern.FindStringSubmatch(line); m != nil {
				label := strings.TrimSpace(m[1])
				if _, exists := footnotes[label]; label != "" && !exists {
					footnotes[label] = strings.TrimSpace(m[2])
				}
				continue
			}
		}
		if m := linkDefPattern.FindStringSubmatch(line); m != nil {
			label := foldLabel(m[1])
			if _, exists := links[label]; label != "" && !exists {
				links[label] = m[2]
			}
			continue
		}
		remaining = append(remaining, line)
	}
	return links, footnotes, remaining
}
