package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/airfork/uts-dpm-sub000/internal/model"
)

// otrLocation is used when a shift description carries a block reference
// instead of a fixed location.
const otrLocation = "OTR"

// AutogenDpm is one classified candidate point record derived from a raw
// shift. Immutable once built; either discarded with the day's run or
// turned into a persisted UserDpm at commit.
type AutogenDpm struct {
	Name      string
	Block     string
	StartTime string
	EndTime   string
	Location  string
	Type      *model.DpmType
	Notes     string
}

// colorMap maps a When2Work color code to the DPM type it stands for.
// Built once per run so classification stays deterministic even if the
// catalog is edited mid-run.
type colorMap map[string]*model.DpmType

// buildColorMap snapshots active colors that have at least one active DPM
// type attached; the most recently updated active type wins per color.
func buildColorMap(colors []model.W2WColor) colorMap {
	m := make(colorMap, len(colors))
	for i := range colors {
		color := &colors[i]
		var newest *model.DpmType
		for j := range color.DpmTypes {
			t := &color.DpmTypes[j]
			if !t.Active {
				continue
			}
			if newest == nil || t.UpdatedAt.After(newest.UpdatedAt) {
				newest = t
			}
		}
		if newest != nil {
			m[color.ColorCode] = newest
		}
	}
	return m
}

// classifyShift turns one raw shift into a candidate, or nil when the
// shift is not DPM-relevant. Dropping is silent; only the first three
// checks can drop a shift.
func classifyShift(shift Shift, colors colorMap) *AutogenDpm {
	if !strings.EqualFold(shift.Published, "Y") {
		return nil
	}
	if !strings.HasPrefix(shift.Block, "[") {
		return nil
	}
	dpmType, ok := colors[shift.ColorID]
	if !ok {
		return nil
	}

	location, notes := parseShiftDescription(shift.Description)

	return &AutogenDpm{
		Name:      strings.TrimSpace(shift.FirstName + " " + shift.LastName),
		Block:     shift.Block,
		StartTime: convertW2WTime(shift.StartTime),
		EndTime:   convertW2WTime(shift.EndTime),
		Location:  location,
		Type:      dpmType,
		Notes:     notes,
	}
}

// convertW2WTime normalizes a free-form When2Work clock time ("7:00am",
// "14:20", bare "7") to a zero-padded 24-hour HHmm string. Empty input
// maps to empty output.
func convertW2WTime(t string) string {
	if t == "" {
		return ""
	}

	lower := strings.ToLower(t)
	pm := strings.HasSuffix(lower, "pm")
	am := strings.HasSuffix(lower, "am")
	if pm || am {
		t = t[:len(t)-2]
	}

	hourPart, minutePart, found := strings.Cut(t, ":")
	if !found {
		minutePart = "00"
	}

	hours, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		hours = 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		minutes = 0
	}

	if pm && hours >= 1 && hours <= 11 {
		hours += 12
	}
	if am && hours == 12 {
		hours = 0
	}

	return fmt.Sprintf("%02d%02d", hours, minutes)
}

// parseShiftDescription splits a shift description into (location, notes).
// A leading "[" means the shift is a block reference, so the location is
// the OTR constant; otherwise the first whitespace-delimited token is the
// location. Notes come from a {...} span: the inner text when the span is
// complete, everything after the brace when unterminated, empty otherwise.
func parseShiftDescription(description string) (location, notes string) {
	if strings.HasPrefix(description, "[") {
		location = otrLocation
	} else if fields := strings.Fields(description); len(fields) > 0 {
		location = fields[0]
	}

	return location, extractFromBraces(description)
}

func extractFromBraces(input string) string {
	open := strings.IndexByte(input, '{')
	if open < 0 {
		return ""
	}
	rest := input[open+1:]
	if closing := strings.IndexByte(rest, '}'); closing >= 0 {
		return rest[:closing]
	}
	return rest
}

// ── block ordering ──

// sortByBlock orders candidates by block label for presentation: numeric
// blocks first in ascending order, then everything else alphabetically.
func sortByBlock(dpms []AutogenDpm) {
	sort.SliceStable(dpms, func(i, j int) bool {
		return compareBlocks(dpms[i].Block, dpms[j].Block) < 0
	})
}

func compareBlocks(a, b string) int {
	contentA := extractBracketContent(a)
	contentB := extractBracketContent(b)

	numericA := allDigits(contentA)
	numericB := allDigits(contentB)

	switch {
	case numericA && numericB:
		return compareNumericStrings(contentA, contentB)
	case numericA:
		return -1
	case numericB:
		return 1
	default:
		return strings.Compare(contentA, contentB)
	}
}

// compareNumericStrings orders digit strings by value without parsing,
// so labels longer than an int survive: shorter means smaller once
// leading zeros are stripped, equal lengths compare lexicographically.
func compareNumericStrings(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// extractBracketContent returns the text between the first "[" and the
// first "]" after it, or the input unchanged when there is no such pair.
func extractBracketContent(value string) string {
	open := strings.IndexByte(value, '[')
	closing := strings.IndexByte(value, ']')
	if open >= 0 && closing >= 0 && open < closing {
		return value[open+1 : closing]
	}
	return value
}
