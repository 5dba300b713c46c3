package review

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// casing holds the case mappers used by the casing rules. Casers keep state
// between calls, so every dispatcher owns its own pair.
type casing struct {
	upper cases.Caser
	lower cases.Caser
}

func newCasing() *casing {
	return &casing{
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

func (c *casing) isUpper(s string) bool { return c.upper.String(s) == s }
func (c *casing) isLower(s string) bool { return c.lower.String(s) == s }

// Classify reports whether name follows the routine naming convention:
// capitalized words separated by underscores, such as Get_Value or Check_Insert___.
//
// Two run limits apply. A run longer than three underscores fails as soon as
// it is read, and a run longer than one underscore fails when a letter follows
// it. The second limit is stricter, so "A__B" is rejected while "Check___" is
// accepted because no character follows its run.
func Classify(name string) bool {
	runes := []rune(name)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}

	run := 0
	inRun := false
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}

		if r == '_' {
			inRun = true
			run++
			if run > 3 {
				return false
			}
			continue
		}

		if inRun {
			if run > 1 {
				return false
			}
			run = 0
			inRun = false
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}

		if unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLower(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
