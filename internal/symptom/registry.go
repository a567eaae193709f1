// Package symptom holds the catalog of symptom modules: their question lists
// and the decision rules that turn answers into triage verdicts.
package symptom

// ID identifies a symptom module. The set is closed; use Valid to reject
// anything that did not come from this package.
type ID string

const (
	TroubleBreathing ID = "URG-101"
	ChestPain        ID = "URG-102"
	Bleeding         ID = "URG-103"
	Fainting         ID = "URG-107"
	AlteredMental    ID = "URG-108"
	PortSitePain     ID = "URG-114"

	Nausea       ID = "NAU-203"
	Vomiting     ID = "VOM-204"
	Diarrhea     ID = "DIA-205"
	Constipation ID = "CON-210"
	NoAppetite   ID = "APP-209"
	MouthSores   ID = "MSO-208"
	Dehydration  ID = "DEH-201"

	Pain          ID = "PAI-213"
	Neuropathy    ID = "NEU-216"
	Headache      ID = "HEA-210"
	AbdominalPain ID = "ABD-211"
	LegPain       ID = "LEG-208"
	JointPain     ID = "JMP-212"
	FallsBalance  ID = "NEU-304"

	Fever    ID = "FEV-202"
	Fatigue  ID = "FAT-206"
	Cough    ID = "COU-215"
	Urinary  ID = "URI-211"
	SkinRash ID = "SKI-212"
	Swelling ID = "SWE-214"
	Eye      ID = "EYE-207"
)

// Module is one reportable symptom.
type Module struct {
	ID   ID
	Name string
	// Hidden modules are reached only through a branch or the emergency check.
	Hidden            bool
	Screening         []Question
	FollowUp          []Question
	EvaluateScreening Evaluator
	EvaluateFollowUp  Evaluator
}

// Questions returns the question list for the given section.
func (m *Module) Questions(followUp bool) []Question {
	if followUp {
		return m.FollowUp
	}
	return m.Screening
}

// Evaluate runs the evaluator for the given section.
func (m *Module) Evaluate(followUp bool, a Answers) Result {
	fn := m.EvaluateScreening
	if followUp {
		fn = m.EvaluateFollowUp
	}
	if fn == nil {
		return stop()
	}
	return fn(a)
}

// Option pairs a patient-facing label with the module it selects.
type Option struct {
	ID    ID
	Label string
}

// Category groups selectable symptoms for the selection screen.
type Category struct {
	Name     string
	Symptoms []Option
}

var registry = map[ID]*Module{}

var ordered []*Module

func register(mods ...*Module) {
	for _, m := range mods {
		registry[m.ID] = m
		ordered = append(ordered, m)
	}
}

func init() {
	register(emergencyModules()...)
	register(digestiveModules()...)
	register(painModules()...)
	register(systemicModules()...)
	register(skinModules()...)
	register(fallsModule())
}

// Lookup returns the module for id.
func Lookup(id ID) (*Module, bool) {
	m, ok := registry[id]
	return m, ok
}

// Valid reports whether id names a registered module.
func (id ID) Valid() bool {
	_, ok := registry[id]
	return ok
}

// All returns every registered module in registration order.
func All() []*Module {
	out := make([]*Module, len(ordered))
	copy(out, ordered)
	return out
}

// Name returns the display name of id, or the raw id if unknown.
func Name(id ID) string {
	if m, ok := registry[id]; ok {
		return m.Name
	}
	return string(id)
}

var categories = []Category{
	{Name: "Digestive", Symptoms: []Option{
		{Nausea, "Nausea"},
		{Vomiting, "Vomiting"},
		{Diarrhea, "Diarrhea"},
		{Constipation, "Constipation"},
		{NoAppetite, "No Appetite"},
		{MouthSores, "Mouth Sores"},
		{Dehydration, "Dehydration"},
	}},
	{Name: "Pain & Nerve", Symptoms: []Option{
		{Pain, "Pain"},
		{Neuropathy, "Neuropathy"},
	}},
	{Name: "Systemic", Symptoms: []Option{
		{Fever, "Fever"},
		{Fatigue, "Fatigue"},
		{Cough, "Cough"},
		{Urinary, "Urinary Problems"},
	}},
	{Name: "Skin & External", Symptoms: []Option{
		{SkinRash, "Skin Rash/Redness"},
		{Swelling, "Swelling"},
		{Eye, "Eye Complaints"},
	}},
}

var emergencyButtons = []Option{
	{TroubleBreathing, "Trouble Breathing"},
	{ChestPain, "Chest Pain"},
	{Bleeding, "Significant Bleeding"},
	{Fainting, "Fainting"},
	{AlteredMental, "Confusion"},
}

// Categories returns the patient-selectable symptom catalog.
func Categories() []Category {
	return categories
}

// SelectionLabels flattens Categories into the option list shown to the patient.
func SelectionLabels() []string {
	var labels []string
	for _, c := range categories {
		for _, s := range c.Symptoms {
			labels = append(labels, s.Label)
		}
	}
	return labels
}

// LabelToID maps a selection label to its module.
func LabelToID(label string) (ID, bool) {
	for _, c := range categories {
		for _, s := range c.Symptoms {
			if s.Label == label {
				return s.ID, true
			}
		}
	}
	return "", false
}

// EmergencyButtons returns the emergency symptoms offered at the emergency check.
func EmergencyButtons() []Option {
	return emergencyButtons
}

// EmergencyLabelToID maps an emergency button label to its module.
func EmergencyLabelToID(label string) (ID, bool) {
	for _, b := range emergencyButtons {
		if b.Label == label {
			return b.ID, true
		}
	}
	return "", false
}
