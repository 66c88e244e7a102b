// Package audit scores individual passwords and produces vault-wide
// security reports over decrypted credential items. Everything here is
// pure computation over plaintext the caller already holds; nothing in
// this package performs I/O or talks to the account service.
package audit

import (
	"regexp"
	"strings"

	"github.com/nbutton23/zxcvbn-go"
)

// Strength labels a password score.
type Strength string

const (
	StrengthVeryWeak   Strength = "Very Weak"
	StrengthWeak       Strength = "Weak"
	StrengthModerate   Strength = "Moderate"
	StrengthStrong     Strength = "Strong"
	StrengthVeryStrong Strength = "Very Strong"
)

// Analysis is the result of scoring a single password.
type Analysis struct {
	Score           int      `json:"score"`
	Strength        Strength `json:"strength"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Compromised     bool     `json:"compromised"`

	// Supplemental estimates from the zxcvbn model. They do not feed the
	// score; they give the user a second opinion on the same password.
	EntropyBits float64 `json:"entropy_bits"`
	CrackTime   string  `json:"crack_time"`
}

var (
	lowerRE  = regexp.MustCompile(`[a-z]`)
	upperRE  = regexp.MustCompile(`[A-Z]`)
	digitRE  = regexp.MustCompile(`[0-9]`)
	symbolRE = regexp.MustCompile(`[^a-zA-Z0-9]`)

	allDigitsRE  = regexp.MustCompile(`^\d{4,}$`)
	allLettersRE = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// Analyze scores a candidate password. The score is additive over length
// and character classes, penalized for predictable patterns, membership
// in the compromised list, and consecutive repeats, then clamped at 0.
// An empty candidate is not an error; it scores 0, Very Weak.
func Analyze(candidate string) Analysis {
	var a Analysis
	score := 0

	switch {
	case len(candidate) >= 12:
		score += 2
	case len(candidate) >= 8:
		score++
	default:
		a.Issues = append(a.Issues, "password is too short")
		a.Recommendations = append(a.Recommendations, "use at least 8 characters")
	}

	classes := []struct {
		re    *regexp.Regexp
		issue string
		rec   string
	}{
		{lowerRE, "no lowercase letters", "include lowercase letters"},
		{upperRE, "no uppercase letters", "include uppercase letters"},
		{digitRE, "no digits", "include digits"},
		{symbolRE, "no symbols", "include symbols (!@#$%^&*)"},
	}
	for _, c := range classes {
		if c.re.MatchString(candidate) {
			score++
		} else {
			a.Issues = append(a.Issues, c.issue)
			a.Recommendations = append(a.Recommendations, c.rec)
		}
	}

	if hasWeakPattern(candidate) {
		score -= 2
		a.Issues = append(a.Issues, "contains a predictable pattern")
		a.Recommendations = append(a.Recommendations, "avoid sequences and repetition")
	}

	if _, ok := compromisedSet[strings.ToLower(candidate)]; ok {
		score -= 3
		a.Compromised = true
		a.Issues = append(a.Issues, "known compromised password")
		a.Recommendations = append(a.Recommendations, "use a unique, complex password")
	}

	if hasTripleRepeat(candidate) {
		score--
		a.Issues = append(a.Issues, "contains repeated characters")
		a.Recommendations = append(a.Recommendations, "avoid repeating characters")
	}

	switch {
	case score >= 6:
		a.Strength = StrengthVeryStrong
	case score >= 5:
		a.Strength = StrengthStrong
	case score >= 4:
		a.Strength = StrengthModerate
	case score >= 2:
		a.Strength = StrengthWeak
	default:
		a.Strength = StrengthVeryWeak
	}
	a.Score = max(0, score)

	if candidate != "" {
		match := zxcvbn.PasswordStrength(candidate, nil)
		a.EntropyBits = match.Entropy
		a.CrackTime = match.CrackTimeDisplay
	}
	return a
}

// hasWeakPattern checks the fixed pattern set: single-character runs,
// digit sequences, keyboard walks, obvious words, all-digits and
// all-letters candidates.
func hasWeakPattern(s string) bool {
	if isSingleCharRun(s) {
		return true
	}
	if strings.Contains(s, "123456") || strings.Contains(s, "654321") {
		return true
	}
	if strings.Contains(s, "qwerty") || strings.Contains(s, "asdfg") {
		return true
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "password") || strings.Contains(lower, "senha") {
		return true
	}
	return allDigitsRE.MatchString(s) || allLettersRE.MatchString(s)
}

func isSingleCharRun(s string) bool {
	if len(s) < 2 {
		return false
	}
	runes := []rune(s)
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

func hasTripleRepeat(s string) bool {
	runes := []rune(s)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
