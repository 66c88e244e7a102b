package audit

import (
	"errors"
	"strings"

	"github.com/nexakey/nexakey/internal/util"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// Characters that are easy to misread when copied by hand.
	similarChars = "il1Lo0O"

	// MinGeneratedLength is the shortest password Generate will produce.
	MinGeneratedLength = 8
)

// GenerateOptions controls Generate. The zero value is not useful; start
// from DefaultGenerateOptions.
type GenerateOptions struct {
	Length         int
	IncludeSymbols bool
	ExcludeSimilar bool
}

// DefaultGenerateOptions matches what the audit recommendations assume:
// 16 characters, symbols on, look-alike characters excluded.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{Length: 16, IncludeSymbols: true, ExcludeSimilar: true}
}

// Generate produces a random password containing at least one character
// from every enabled class, using the platform CSPRNG.
func Generate(opts GenerateOptions) (string, error) {
	if opts.Length < MinGeneratedLength {
		return "", errors.New("audit: generated password length below minimum")
	}

	classes := []string{lowerChars, upperChars, digitChars}
	if opts.IncludeSymbols {
		classes = append(classes, symbolChars)
	}
	if opts.ExcludeSimilar {
		for i, c := range classes {
			classes[i] = stripChars(c, similarChars)
		}
	}
	alphabet := strings.Join(classes, "")

	// Draw one character per class first so every class is represented,
	// fill the rest from the full alphabet, then shuffle so the class
	// characters do not cluster at the front.
	out := make([]byte, 0, opts.Length)
	for _, class := range classes {
		idx, err := util.RandomIntn(len(class))
		if err != nil {
			return "", err
		}
		out = append(out, class[idx])
	}
	for len(out) < opts.Length {
		idx, err := util.RandomIntn(len(alphabet))
		if err != nil {
			return "", err
		}
		out = append(out, alphabet[idx])
	}
	for i := len(out) - 1; i > 0; i-- {
		j, err := util.RandomIntn(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func stripChars(s, cut string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cut, r) {
			return -1
		}
		return r
	}, s)
}
