// Package validation checks numeric answers (temperatures, vitals, counts)
// before they are stored on a conversation.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the measurement a numeric question collects, inferred from its id.
type Kind int

const (
	KindGeneric Kind = iota
	KindTemperature
	KindBloodPressure
	KindHeartRate
	KindOxygen
	KindBloodSugar
	KindWeight
	KindDays
	KindCount
)

const (
	tempMinF = 90.0
	tempMaxF = 110.0
	tempMinC = 32.0
	tempMaxC = 43.0

	systolicMin  = 70
	systolicMax  = 250
	diastolicMin = 40
	diastolicMax = 150

	heartRateMin = 40
	heartRateMax = 200

	oxygenMin = 70
	oxygenMax = 100

	bloodSugarMin = 20
	bloodSugarMax = 600

	weightMin = 50
	weightMax = 500

	daysMax  = 365
	countMax = 50
)

var hints = map[Kind]string{
	KindTemperature:   "e.g., 101.5 or 38.6°C",
	KindBloodPressure: "e.g., 120/80",
	KindHeartRate:     "e.g., 88",
	KindOxygen:        "e.g., 98",
	KindBloodSugar:    "e.g., 110",
	KindWeight:        "e.g., 165",
	KindDays:          "e.g., 3",
	KindCount:         "e.g., 3",
}

// Detection order matters: "temperature" must win over anything later in the list.
var kindMatchers = []struct {
	kind    Kind
	needles []string
}{
	{KindTemperature, []string{"temp"}},
	{KindBloodPressure, []string{"bp", "blood_pressure", "pressure"}},
	{KindHeartRate, []string{"hr", "heart_rate", "pulse"}},
	{KindOxygen, []string{"o2", "oxygen", "spo2", "sat"}},
	{KindBloodSugar, []string{"sugar", "glucose"}},
	{KindWeight, []string{"weight", "lbs"}},
	{KindDays, []string{"days", "day", "duration"}},
	{KindCount, []string{"times", "episodes", "frequency", "loose_stools"}},
}

var (
	bloodPressurePattern = regexp.MustCompile(`^(\d{2,3})\s*/\s*(\d{2,3})$`)
	leadingNumber        = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)
)

// Result is the outcome of validating one raw answer.
type Result struct {
	Valid bool
	// Value is the normalized reading: Fahrenheit for temperatures, systolic
	// for blood pressure, the parsed number otherwise.
	Value float64
	// Secondary holds the diastolic reading for blood pressure answers.
	Secondary float64
	Error     string
}

// KindOf infers the measurement kind from a question id.
func KindOf(questionID string) Kind {
	id := strings.ToLower(questionID)
	for _, m := range kindMatchers {
		for _, needle := range m.needles {
			if strings.Contains(id, needle) {
				return m.kind
			}
		}
	}
	return KindGeneric
}

// Hint returns the input-format hint for a numeric question, or "" when none applies.
func Hint(questionID string) string {
	return hints[KindOf(questionID)]
}

// Validate checks raw against the band for the question's kind.
func Validate(questionID, raw string) Result {
	value := strings.TrimSpace(raw)
	if value == "" {
		return invalid("Please enter a value.")
	}

	switch KindOf(questionID) {
	case KindTemperature:
		return validateTemperature(value)
	case KindBloodPressure:
		return validateBloodPressure(value)
	case KindHeartRate:
		return validateRange(value, heartRateMin, heartRateMax, "Heart rate", " BPM")
	case KindOxygen:
		return validateRange(strings.Replace(value, "%", "", 1), oxygenMin, oxygenMax, "SpO2", "%")
	case KindBloodSugar:
		return validateRange(value, bloodSugarMin, bloodSugarMax, "Blood sugar", " mg/dL")
	case KindWeight:
		return validateRange(value, weightMin, weightMax, "Weight", " lbs")
	case KindDays:
		return validateRange(value, 0, daysMax, "Days", "")
	case KindCount:
		return validateRange(value, 0, countMax, "Value", "")
	}

	num, ok := parseNumber(value)
	if !ok {
		return invalid("Please enter a valid number.")
	}
	return Result{Valid: true, Value: num}
}

func validateTemperature(value string) Result {
	num, ok := parseNumber(value)
	if !ok {
		return invalid("Please enter a valid number (e.g., 101.5 or 38.6°C).")
	}
	if num >= tempMinC && num <= tempMaxC {
		return Result{Valid: true, Value: math.Round((num*9/5+32)*10) / 10}
	}
	if num < tempMinF {
		return invalid(fmt.Sprintf("Temperature %s°F seems too low. Please verify and re-enter.", formatNumber(num)))
	}
	if num > tempMaxF {
		return invalid(fmt.Sprintf("Temperature %s°F seems too high. Please verify and re-enter.", formatNumber(num)))
	}
	return Result{Valid: true, Value: num}
}

func validateBloodPressure(value string) Result {
	m := bloodPressurePattern.FindStringSubmatch(value)
	if m == nil {
		return invalid("Please enter blood pressure as systolic/diastolic (e.g., 120/80).")
	}
	systolic, _ := strconv.Atoi(m[1])
	diastolic, _ := strconv.Atoi(m[2])

	var errs []string
	if systolic < systolicMin || systolic > systolicMax {
		errs = append(errs, fmt.Sprintf("Systolic (%d) should be between %d-%d", systolic, systolicMin, systolicMax))
	}
	if diastolic < diastolicMin || diastolic > diastolicMax {
		errs = append(errs, fmt.Sprintf("Diastolic (%d) should be between %d-%d", diastolic, diastolicMin, diastolicMax))
	}
	if systolic <= diastolic {
		errs = append(errs, "Systolic should be higher than diastolic")
	}
	if len(errs) > 0 {
		return invalid("Please verify: " + strings.Join(errs, "; "))
	}
	return Result{Valid: true, Value: float64(systolic), Secondary: float64(diastolic)}
}

func validateRange(value string, min, max int, label, unit string) Result {
	num, ok := parseNumber(value)
	if !ok {
		return invalid(fmt.Sprintf("Please enter a valid number for %s.", label))
	}
	rounded := int(math.Round(num))
	if rounded < min {
		return invalid(fmt.Sprintf("%s %d%s seems too low. Expected range: %d-%d%s.", label, rounded, unit, min, max, unit))
	}
	if rounded > max {
		return invalid(fmt.Sprintf("%s %d%s seems too high. Expected range: %d-%d%s.", label, rounded, unit, min, max, unit))
	}
	return Result{Valid: true, Value: num}
}

// parseNumber reads the leading number of s, so "38.6°C" and "98%" parse.
func parseNumber(s string) (float64, bool) {
	lead := leadingNumber.FindString(strings.TrimSpace(s))
	if lead == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(lead, 64)
	if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
		return 0, false
	}
	return num, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func invalid(msg string) Result {
	return Result{Error: msg}
}
