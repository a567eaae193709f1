package symptom

// Standard option sets shared across modules and conversation phases.
var (
	SeverityOptions = []string{"Mild (1–3)", "Moderate (4–6)", "Severe (7–10)"}

	OralIntakeOptions = []string{
		"Reduced but eating",
		"Having difficulty eating/drinking",
		"Barely eating/drinking",
		"Not able to eat/drink at all",
		"Normal",
	}

	DehydrationSigns = []string{
		"Dark urine",
		"Less urine than usual",
		"Very thirsty",
		"Lightheaded",
		"I know my vitals",
		"None of these",
	}

	NauseaMeds = []string{
		"Compazine (prochlorperazine) 5mg q6h",
		"Zofran (ondansetron) 8mg q8h",
		"Olanzapine 5mg daily",
		"Other",
		"None",
	}

	DiarrheaMeds = []string{
		"Imodium (loperamide) 4mg then 2mg after each loose stool",
		"Lomotil 1–2 tablets four times daily",
		"Other",
		"None",
	}

	ConstipationMeds = []string{
		"Miralax once daily",
		"Miralax twice daily",
		"Senna",
		"Bisacodyl (Dulcolax)",
		"Docusate (Colace)",
		"Other",
		"None",
	}

	NeuropathyMeds = []string{"Gabapentin", "Duloxetine", "Pregabalin", "Other", "None"}

	CoughMeds = []string{
		"Robitussin (dextromethorphan) 10–20mg every 4h",
		"Robitussin DM 30mg every 6–8h",
		"Other",
		"None",
	}

	FeverMedsOptions = []string{
		"Tylenol (acetaminophen)",
		"Advil/Motrin (ibuprofen)",
		"Other",
		"None",
	}

	FeverDurationOptions = []string{
		"Less than 24 hours",
		"1–2 days",
		"3 or more days",
	}

	LastChemoOptions = []string{
		"Today",
		"Yesterday",
		"2–3 days ago",
		"4–7 days ago",
		"1–2 weeks ago",
		"More than 2 weeks ago",
		"None",
	}

	NextVisitOptions = []string{
		"Today",
		"Tomorrow",
		"In 2–3 days",
		"This week",
		"Next week",
		"More than 2 weeks away",
		"Not scheduled",
	}

	YesNoOptions     = []string{"Yes", "No"}
	WorseningOptions = []string{"Worsening", "Same", "Improving"}

	DurationOptions = []string{"Less than 24 hours", "24 hours", "2–3 days", "More than 3 days"}

	VomitingFrequencyOptions = []string{"1–2 times", "3–5 times", "More than 6 times"}

	StoolSymptoms = []string{"Black stool", "Blood in stool", "Mucus", "Other", "None"}

	PainLocations = []string{
		"Chest",
		"Port/IV Site",
		"Head",
		"Leg/Calf",
		"Abdomen",
		"Urinary/Pelvic",
		"Joints/Muscles",
		"General Aches",
		"Nerve Burning/Tingling",
		"Mouth/Throat",
		"Other",
	}

	HeadacheNeuroSymptoms = []string{
		"Blurred/double vision",
		"Trouble speaking",
		"Face droopy",
		"Arm/leg weak",
		"Trouble walking",
		"Confusion",
		"None",
	}

	SkinLocations = []string{"Face", "Chest", "Arms", "Legs", "Hands/Feet", "Infusion Site", "Other"}

	FeverAssociatedSymptoms = []string{
		"Heart rate over 100",
		"Nausea",
		"Vomiting",
		"Abdominal Pain",
		"Diarrhea",
		"Port redness",
		"Cough",
		"Dizziness",
		"Confusion",
		"Burning urination",
		"Chills",
		"Other",
		"None",
	}

	JointPainTypes     = []string{"Joint", "Muscle", "General aches"}
	PainDescriptions   = []string{"Sharp", "Dull", "Burning", "Throbbing"}
	HeadacheOnsets     = []string{"Sudden", "Today", "1–3 days ago", "More than 3 days"}
	MucusOptions       = []string{"No", "Clear", "Yellow-green", "Blood-streaked"}
	UrineColorOptions  = []string{"Clear/pale", "Light yellow", "Dark yellow", "Orange", "Brown"}
	SwellingLocations  = []string{"Face", "Neck", "Arms", "Legs", "Feet/Ankles", "Abdomen", "Other"}
	SwellingAssociated = []string{"Shortness of breath", "Chest discomfort", "Fever", "Redness", "None"}
	EyeSymptoms        = []string{"Pain", "Discharge", "Excessive tearing", "None"}
	BurningUrination   = []string{"No", "Mild", "Moderate", "Severe"}
)
