// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one candidate against a
// pattern.
type FuzzyResult struct {
	// Matched is false when the pattern does not occur in the text as
	// a subsequence.
	Matched bool

	// Score ranks matches; higher is better. Zero for an empty pattern.
	Score int

	// Positions are the rune indices in the text that matched, for
	// highlighting. Unordered.
	Positions []int
}

var initAlgorithm sync.Once

// NewSlab allocates the scratch memory fzf reuses across matches.
// Allocate one per finder and pass it to every FuzzyMatch call.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch runs fzf's V2 algorithm (case-insensitive, Unicode
// normalized) over text. An empty pattern matches everything with a
// zero score.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{Matched: true}
	}
	initAlgorithm.Do(func() { algo.Init("default") })

	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Matched: true, Score: result.Score}
	if positions != nil {
		matched.Positions = append([]int(nil), (*positions)...)
	}
	return matched
}
