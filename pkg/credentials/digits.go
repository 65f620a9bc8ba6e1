package credentials

import (
	"regexp"
	"strings"
)

// Words that always mean a digit.
var digitWords = map[string]byte{
	"zero":  '0',
	"one":   '1',
	"two":   '2',
	"three": '3',
	"four":  '4',
	"five":  '5',
	"six":   '6',
	"seven": '7',
	"eight": '8',
	"nine":  '9',
	"niner": '9',
}

// Transcription homophones. They only count inside a run of digit words,
// never at its edges, so "pay for five six" keeps its "for".
var homophoneWords = map[string]byte{
	"oh":   '0',
	"o":    '0',
	"won":  '1',
	"to":   '2',
	"too":  '2',
	"tree": '3',
	"for":  '4',
	"fore": '4',
	"ate":  '8',
}

var (
	tokenPattern  = regexp.MustCompile(`[\p{L}']+|\d+`)
	runGapPattern = regexp.MustCompile(`^[\s,.\-]*$`)
)

func digitOf(token string) (byte, bool) {
	if len(token) == 1 && token[0] >= '0' && token[0] <= '9' {
		return token[0], true
	}
	lower := strings.ToLower(token)
	if d, ok := digitWords[lower]; ok {
		return d, true
	}
	if d, ok := homophoneWords[lower]; ok {
		return d, true
	}
	return 0, false
}

func isHomophone(token string) bool {
	_, ok := homophoneWords[strings.ToLower(token)]
	return ok
}

// NormalizeSpokenDigits collapses spoken or spaced-out digits into digit
// strings: "one two three four" and "1 2 3 4" both become "1234". Text
// outside a digit run is returned unchanged.
func NormalizeSpokenDigits(text string) string {
	locs := tokenPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	token := func(i int) string { return text[locs[i][0]:locs[i][1]] }

	var b strings.Builder
	b.Grow(len(text))
	last := 0

	for i := 0; i < len(locs); {
		if _, ok := digitOf(token(i)); !ok {
			i++
			continue
		}

		j := i
		for j+1 < len(locs) {
			if _, ok := digitOf(token(j + 1)); !ok {
				break
			}
			if !runGapPattern.MatchString(text[locs[j][1]:locs[j+1][0]]) {
				break
			}
			j++
		}

		start, end := i, j
		for start <= end && isHomophone(token(start)) {
			start++
		}
		for end >= start && isHomophone(token(end)) {
			end--
		}

		if start <= end {
			b.WriteString(text[last:locs[start][0]])
			for k := start; k <= end; k++ {
				d, _ := digitOf(token(k))
				b.WriteByte(d)
			}
			last = locs[end][1]
		}
		i = j + 1
	}

	b.WriteString(text[last:])
	return b.String()
}
