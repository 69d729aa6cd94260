package quiz

import (
	"regexp"
	"strings"
)

// ImportDefaults are applied to every question pulled out of a document.
type ImportDefaults struct {
	Subject    string
	Topic      string
	Difficulty string
}

var (
	labelRe  = regexp.MustCompile(`(?i)^question\s*\d+\s*[:.)-]\s*`)
	optionRe = regexp.MustCompile(`(?:^|\s)([A-D])\)\s*`)
)

// ExtractQuestions scans text already extracted from a document (one item
// per line) and drafts questions from it:
//
//   - a line mentioning "question" or containing "?" starts a new question
//   - "A) ... B) ..." markers, inline or on following lines, become options
//     and make the question multiple-choice
//   - a question mentioning both "true" and "false" is true-false
//   - anything else is short-answer; unrecognised lines extend the current text
//
// Drafts carry no answer key; teachers review them before students see scores.
func ExtractQuestions(text string, d ImportDefaults) []Question {
	if !validDifficulty(d.Difficulty) {
		d.Difficulty = DifficultyMedium
	}
	var (
		out []Question
		cur *Question
	)
	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case cur != nil && optionRe.MatchString(line) && optionRe.FindStringIndex(line)[0] == 0:
			addOptions(cur, line)

		case strings.Contains(lower, "question") || strings.Contains(line, "?"):
			flush()
			body := labelRe.ReplaceAllString(line, "")
			rest := ""
			if loc := optionRe.FindStringIndex(body); loc != nil {
				body, rest = strings.TrimSpace(body[:loc[0]]), body[loc[0]:]
			}
			cur = &Question{
				Text:       body,
				Type:       TypeShortAnswer,
				Difficulty: d.Difficulty,
				Subject:    d.Subject,
				Topic:      d.Topic,
				Points:     1,
				IsActive:   true,
			}
			if strings.Contains(lower, "true") && strings.Contains(lower, "false") {
				cur.Type = TypeTrueFalse
			}
			if rest != "" {
				addOptions(cur, rest)
			}

		case cur != nil:
			cur.Text += " " + line
		}
	}
	flush()
	return out
}

func addOptions(q *Question, line string) {
	idx := optionRe.FindAllStringSubmatchIndex(line, -1)
	if len(idx) == 0 {
		return
	}
	if q.Options == nil {
		q.Options = map[string]string{}
	}
	for i, m := range idx {
		end := len(line)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		letter := line[m[2]:m[3]]
		q.Options[letter] = strings.TrimSpace(line[m[1]:end])
	}
	if q.Type != TypeTrueFalse {
		q.Type = TypeMultipleChoice
	}
}
