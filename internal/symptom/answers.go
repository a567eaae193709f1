package symptom

import (
	"regexp"
	"strconv"
	"strings"
)

// Answer is one stored patient answer. Exactly one of Text, Options or
// Number is normally set, matching the question type.
type Answer struct {
	Text    string   `json:"text,omitempty"`
	Options []string `json:"options,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	// Secondary holds a second reading, e.g. the diastolic blood pressure.
	Secondary *float64 `json:"secondary,omitempty"`
}

// Clone returns a copy that shares no memory with a.
func (a Answer) Clone() Answer {
	c := a
	c.Options = append([]string(nil), a.Options...)
	if a.Number != nil {
		n := *a.Number
		c.Number = &n
	}
	if a.Secondary != nil {
		n := *a.Secondary
		c.Secondary = &n
	}
	return c
}

// Answers maps "SYM:question" keys to stored answers.
type Answers map[string]Answer

// Key builds the answer-map key for a symptom question.
func Key(sym ID, question string) string {
	return string(sym) + ":" + question
}

var leadingInt = regexp.MustCompile(`^[-+]?\d+(\.\d+)?`)

func (a Answers) Has(sym ID, q string) bool {
	_, ok := a[Key(sym, q)]
	return ok
}

func (a Answers) Text(sym ID, q string) string {
	return a[Key(sym, q)].Text
}

func (a Answers) Options(sym ID, q string) []string {
	return a[Key(sym, q)].Options
}

// Number returns the numeric answer, falling back to the leading number of a
// text answer. Missing or unparsable answers read as 0.
func (a Answers) Number(sym ID, q string) float64 {
	ans, ok := a[Key(sym, q)]
	if !ok {
		return 0
	}
	if ans.Number != nil {
		return *ans.Number
	}
	lead := leadingInt.FindString(strings.TrimSpace(ans.Text))
	if lead == "" {
		return 0
	}
	n, err := strconv.ParseFloat(lead, 64)
	if err != nil {
		return 0
	}
	return n
}

func (a Answers) Includes(sym ID, q, option string) bool {
	return contains(a.Options(sym, q), option)
}

func (a Answers) yes(sym ID, q string) bool {
	return a.Text(sym, q) == "Yes"
}

// NumberAnswer wraps a numeric value for storage.
func NumberAnswer(v float64) Answer {
	return Answer{Number: &v}
}
