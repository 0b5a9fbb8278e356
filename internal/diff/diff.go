/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

// Package diff implements the line-level delta codec used to store policy
// version history. Compute produces a compact, JSON-serializable delta
// between two HTML documents; Apply replays a stored delta onto a base
// document. Apply never fails hard: anything it cannot interpret leaves the
// base unchanged, so one bad row cannot make a policy's history unreadable.
package diff

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aryann/difflib"
)

// Change operations. These values are persisted inside diff_data rows and
// must not be renamed.
const (
	OpReplace = "replace"
	OpDelete  = "delete"
	OpInsert  = "insert"
)

// Span is a half-open line range [Start, End) plus the lines it covers.
type Span struct {
	Start int      `json:"start"`
	End   int      `json:"end"`
	Lines []string `json:"lines"`
}

// Change is one non-equal region of a delta. Equal regions are implicit.
type Change struct {
	Op  string `json:"op"`
	Old Span   `json:"old"`
	New Span   `json:"new"`
}

// Delta is the serializable difference between two documents.
type Delta struct {
	Changes      []Change `json:"changes"`
	OldLineCount int      `json:"old_line_count"`
	NewLineCount int      `json:"new_line_count"`
	OldLength    int      `json:"old_length"`
	NewLength    int      `json:"new_length"`
}

// ErrMalformedDelta reports that Apply received a delta it could not
// interpret and returned the base unchanged.
var ErrMalformedDelta = errors.New("malformed delta")

// Normalize rewrites CRLF and bare CR line endings to LF.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// SplitLines normalizes line endings and splits on LF. The empty string
// splits to a single empty line, mirroring the split semantics the stored
// deltas were computed with.
func SplitLines(s string) []string {
	return strings.Split(Normalize(s), "\n")
}

// Compute diffs old against new line by line and returns the delta that
// rewrites old into new. The underlying alignment is a longest common
// subsequence pass; maximal runs of non-equal lines between two equal lines
// are coalesced into a single change.
func Compute(old, new string) Delta {
	oldLines := SplitLines(old)
	newLines := SplitLines(new)

	records := difflib.Diff(oldLines, newLines)

	changes := make([]Change, 0)
	oldIdx, newIdx := 0, 0
	gapOldStart, gapNewStart := 0, 0
	gapOld := []string{}
	gapNew := []string{}
	inGap := false

	flush := func() {
		if !inGap {
			return
		}
		op := OpReplace
		switch {
		case len(gapOld) == 0:
			op = OpInsert
		case len(gapNew) == 0:
			op = OpDelete
		}
		changes = append(changes, Change{
			Op:  op,
			Old: Span{Start: gapOldStart, End: oldIdx, Lines: gapOld},
			New: Span{Start: gapNewStart, End: newIdx, Lines: gapNew},
		})
		gapOld = []string{}
		gapNew = []string{}
		inGap = false
	}

	for _, rec := range records {
		switch rec.Delta {
		case difflib.Common:
			flush()
			oldIdx++
			newIdx++
		case difflib.LeftOnly:
			if !inGap {
				gapOldStart, gapNewStart = oldIdx, newIdx
				inGap = true
			}
			gapOld = append(gapOld, rec.Payload)
			oldIdx++
		case difflib.RightOnly:
			if !inGap {
				gapOldStart, gapNewStart = oldIdx, newIdx
				inGap = true
			}
			gapNew = append(gapNew, rec.Payload)
			newIdx++
		}
	}
	flush()

	return Delta{
		Changes:      changes,
		OldLineCount: len(oldLines),
		NewLineCount: len(newLines),
		OldLength:    len(old),
		NewLength:    len(new),
	}
}

// Marshal serializes a delta for storage.
func (d Delta) Marshal() (json.RawMessage, error) {
	return json.Marshal(d)
}

// wire mirrors Delta with pointer spans so missing fields are detectable.
// Unknown fields are ignored so the stored format can grow.
type wireDelta struct {
	Changes []wireChange `json:"changes"`
}

type wireChange struct {
	Op  string    `json:"op"`
	Old *wireSpan `json:"old"`
	New *wireSpan `json:"new"`
}

type wireSpan struct {
	Start *int     `json:"start"`
	End   *int     `json:"end"`
	Lines []string `json:"lines"`
}

// Apply replays raw delta JSON onto base and returns the resulting document.
// The raw value may be a JSON object, a JSON string containing an object
// (double-encoded rows exist in old databases), or null/empty.
//
// Malformed input never fails hard: the base is returned together with
// ErrMalformedDelta so callers can log the offending version. Out-of-range
// spans are clamped to the base rather than rejected.
func Apply(base string, raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return base, nil
	}

	// Tolerate a double-encoded delta: a JSON string holding the object.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return base, ErrMalformedDelta
		}
		trimmed = bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 {
			return base, nil
		}
	}

	var d wireDelta
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return base, ErrMalformedDelta
	}

	return applyChanges(base, d.Changes)
}

// CountChanges reports how many change records a stored delta carries,
// tolerating the same encodings as Apply. Malformed payloads count as zero.
func CountChanges(raw json.RawMessage) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return 0
		}
		trimmed = bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 {
			return 0
		}
	}
	var d wireDelta
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return 0
	}
	return len(d.Changes)
}

// ApplyDelta replays an in-memory delta onto base.
func ApplyDelta(base string, d Delta) string {
	lines := SplitLines(base)
	result := make([]string, 0, len(lines))
	cursor := 0
	for _, c := range d.Changes {
		start, end := clampSpan(c.Old.Start, c.Old.End, len(lines))
		if cursor < start {
			result = append(result, lines[cursor:start]...)
		}
		if c.Op != OpDelete {
			result = append(result, c.New.Lines...)
		}
		cursor = end
	}
	if cursor < len(lines) {
		result = append(result, lines[cursor:]...)
	}
	return strings.Join(result, "\n")
}

func applyChanges(base string, changes []wireChange) (string, error) {
	lines := SplitLines(base)
	result := make([]string, 0, len(lines))
	cursor := 0

	for _, c := range changes {
		if c.Op != OpReplace && c.Op != OpDelete && c.Op != OpInsert {
			return base, ErrMalformedDelta
		}
		if c.Old == nil || c.New == nil || c.Old.Start == nil || c.Old.End == nil {
			return base, ErrMalformedDelta
		}

		start, end := clampSpan(*c.Old.Start, *c.Old.End, len(lines))
		if cursor < start {
			result = append(result, lines[cursor:start]...)
		}
		if c.Op != OpDelete {
			result = append(result, c.New.Lines...)
		}
		cursor = end
	}

	if cursor < len(lines) {
		result = append(result, lines[cursor:]...)
	}
	return strings.Join(result, "\n"), nil
}

// clampSpan forces a half-open range into [0, n] with start <= end.
func clampSpan(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}
