package symptom

// QuestionType tells the presentation layer which input widget to show.
type QuestionType string

const (
	TypeChoice      QuestionType = "CHOICE"
	TypeYesNo       QuestionType = "YES_NO"
	TypeNumber      QuestionType = "NUMBER"
	TypeText        QuestionType = "TEXT"
	TypeMultiSelect QuestionType = "MULTISELECT"
)

type Question struct {
	ID      string
	Text    string
	Type    QuestionType
	Options []string
	// When gates visibility. The zero Condition always holds.
	When Condition
}

func yesNo(id, text string) Question {
	return Question{ID: id, Text: text, Type: TypeYesNo, Options: YesNoOptions}
}

func choice(id, text string, options []string) Question {
	return Question{ID: id, Text: text, Type: TypeChoice, Options: options}
}

func multi(id, text string, options []string) Question {
	return Question{ID: id, Text: text, Type: TypeMultiSelect, Options: options}
}

func numeric(id, text string) Question {
	return Question{ID: id, Text: text, Type: TypeNumber}
}

func freeText(id, prompt string) Question {
	return Question{ID: id, Text: prompt, Type: TypeText}
}

// when returns a copy of q gated by c.
func (q Question) when(c Condition) Question {
	q.When = c
	return q
}

type condOp int

const (
	opAlways condOp = iota
	opEquals
	opNotEquals
	opIncludes
	opMedsTaken
	opNoMeds
	opAtLeast
	opTempAbove
	opAll
)

// Condition is a declarative visibility rule over the answers of the
// question's own symptom module.
type Condition struct {
	op       condOp
	question string
	value    string
	number   float64
	all      []Condition
}

// Equals holds when the answer to q is exactly v.
func Equals(q, v string) Condition {
	return Condition{op: opEquals, question: q, value: v}
}

// NotEquals holds when the answer to q is anything but v, including unanswered.
func NotEquals(q, v string) Condition {
	return Condition{op: opNotEquals, question: q, value: v}
}

// Includes holds when the multi-select answer to q contains v.
func Includes(q, v string) Condition {
	return Condition{op: opIncludes, question: q, value: v}
}

// MedsTaken holds when q was answered with something other than "None".
func MedsTaken(q string) Condition {
	return Condition{op: opMedsTaken, question: q}
}

func NoMeds(q string) Condition {
	return Condition{op: opNoMeds, question: q}
}

// AtLeast holds when the numeric answer to q is >= n.
func AtLeast(q string, n float64) Condition {
	return Condition{op: opAtLeast, question: q, number: n}
}

// TempAbove holds when the temperature answer to q, in Fahrenheit, exceeds n.
func TempAbove(q string, n float64) Condition {
	return Condition{op: opTempAbove, question: q, number: n}
}

func AllOf(conds ...Condition) Condition {
	return Condition{op: opAll, all: conds}
}

// Holds evaluates the condition for module sym.
func (c Condition) Holds(sym ID, a Answers) bool {
	switch c.op {
	case opAlways:
		return true
	case opEquals:
		return a.Text(sym, c.question) == c.value
	case opNotEquals:
		return a.Text(sym, c.question) != c.value
	case opIncludes:
		return a.Includes(sym, c.question, c.value)
	case opMedsTaken:
		return medsTaken(a.Text(sym, c.question))
	case opNoMeds:
		return !medsTaken(a.Text(sym, c.question))
	case opAtLeast:
		return a.Number(sym, c.question) >= c.number
	case opTempAbove:
		return Fahrenheit(a.Number(sym, c.question)) > c.number
	case opAll:
		for _, sub := range c.all {
			if !sub.Holds(sym, a) {
				return false
			}
		}
		return true
	}
	return false
}
