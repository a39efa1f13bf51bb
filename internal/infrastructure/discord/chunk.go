package discord

import (
	"strings"
	"unicode/utf8"
)

const (
	paragraphSep = "\n\n"
	sentenceSep  = ". "
)

// SplitOutlook breaks text into sections of at most limit characters.
// Paragraphs are packed greedily; a paragraph that cannot fit on its own is
// packed sentence by sentence instead. Chunks are whitespace-trimmed.
func SplitOutlook(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current string
	)
	flush := func() {
		if trimmed := strings.TrimSpace(current); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current = ""
	}

	for _, paragraph := range strings.Split(text, paragraphSep) {
		if runeLen(current+paragraph+paragraphSep) <= limit {
			current += paragraph + paragraphSep
			continue
		}

		flush()
		if runeLen(paragraph+paragraphSep) <= limit {
			current = paragraph + paragraphSep
			continue
		}

		sentences := strings.Split(paragraph, sentenceSep)
		for i, sentence := range sentences {
			if i < len(sentences)-1 {
				sentence += sentenceSep
			}
			if runeLen(current+sentence) <= limit {
				current += sentence
				continue
			}
			flush()
			for runeLen(sentence) > limit {
				head := string([]rune(sentence)[:limit])
				chunks = append(chunks, head)
				sentence = strings.TrimPrefix(sentence, head)
			}
			current = sentence
		}
		current += paragraphSep
	}
	flush()

	return chunks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
