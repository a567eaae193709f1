package symptom

import "strings"

// Action is an evaluator's verdict on what the conversation does next.
type Action string

const (
	ActionContinue  Action = "continue"
	ActionStop      Action = "stop"
	ActionBranch    Action = "branch"
	ActionEmergency Action = "emergency"
)

const defaultEmergencyMessage = "Emergency detected — call 911 immediately."

// Result is the outcome of one evaluator run.
type Result struct {
	Action           Action
	Triage           TriageLevel
	BranchTo         []ID
	AlertMessage     string
	Severity         Severity
	Duration         string
	MedicationsTried string
}

// Evaluator is a pure function from the answers gathered so far to a verdict.
type Evaluator func(a Answers) Result

func stop() Result {
	return Result{Action: ActionStop, Triage: TriageNone}
}

func proceed() Result {
	return Result{Action: ActionContinue, Triage: TriageNone}
}

func branch(targets ...ID) Result {
	return Result{Action: ActionBranch, Triage: TriageNone, BranchTo: targets}
}

func emergency(msg string) Result {
	if msg == "" {
		msg = defaultEmergencyMessage
	}
	return Result{Action: ActionEmergency, Triage: TriageCall911, AlertMessage: msg}
}

// notify builds a NOTIFY_CARE_TEAM verdict that branches when targets exist
// and otherwise ends with action.
func notify(action Action, alerts []string, targets []ID) Result {
	r := Result{Action: action, Triage: TriageNotifyCareTeam, AlertMessage: strings.Join(alerts, "; ")}
	if len(targets) > 0 {
		r.Action = ActionBranch
		r.BranchTo = targets
	}
	return r
}

// stopOrBranch is the quiet verdict: branch when targets exist, otherwise stop.
func stopOrBranch(targets []ID) Result {
	if len(targets) > 0 {
		return branch(targets...)
	}
	return stop()
}
