package models

import "strings"

// CalendarCombo is one frequency/pattern/payday combination selected in the
// payroll-area flow. Its Key is embedded in the per-calendar question ids
// the engine generates (e.g. "business_weekly_monsun_friday"), and Label is
// the human-readable trail shown in the chat breadcrumb.
type CalendarCombo struct {
	Key       string
	Label     string
	Frequency string
	Pattern   string
	Payday    string
}

var freqLabels = map[string]string{
	"weekly":      "Weekly",
	"biweekly":    "Bi-weekly",
	"semimonthly": "Semi-monthly",
	"monthly":     "Monthly",
}

var patternLabels = map[string]string{
	"mon-sun":     "Mon-Sun",
	"sun-sat":     "Sun-Sat",
	"1-end":       "1st-End",
	"1-15_16-end": "1st-15th & 16th-End",
}

// CalendarCombos derives the calendar combinations from collected answers.
// Monthly has no pattern question and is always 1-end; the other frequencies
// default to mon-sun / friday until answered.
func CalendarCombos(answers map[string]Answer) []CalendarCombo {
	frequencies := answers["q1_frequencies"].Multi
	if frequencies == nil && answers["q1_frequencies"].Single != "" {
		frequencies = []string{answers["q1_frequencies"].Single}
	}

	combos := make([]CalendarCombo, 0, len(frequencies))
	for _, freq := range frequencies {
		var pattern string
		switch freq {
		case "monthly":
			pattern = "1-end"
		case "semimonthly":
			pattern = answerOrDefault(answers, "q1_"+freq+"_pattern", "1-15_16-end")
		default:
			pattern = answerOrDefault(answers, "q1_"+freq+"_pattern", "mon-sun")
		}

		payday := answerOrDefault(answers, "q1_"+freq+"_payday", "friday")

		combos = append(combos, CalendarCombo{
			Key:       ComboKey(freq, pattern, payday),
			Label:     comboLabel(freq, pattern, payday),
			Frequency: freq,
			Pattern:   pattern,
			Payday:    payday,
		})
	}
	return combos
}

// ComboKey builds the key the engine embeds in per-calendar question ids:
// the pattern loses its separators, parts join with underscores.
func ComboKey(freq, pattern, payday string) string {
	patternKey := strings.NewReplacer("-", "", "_", "").Replace(pattern)
	return freq + "_" + patternKey + "_" + payday
}

func comboLabel(freq, pattern, payday string) string {
	freqLabel, ok := freqLabels[freq]
	if !ok {
		freqLabel = capitalize(freq)
	}
	patternLabel, ok := patternLabels[pattern]
	if !ok {
		patternLabel = pattern
	}
	return freqLabel + " " + patternLabel + " (Payday: " + capitalize(payday) + ")"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func answerOrDefault(answers map[string]Answer, questionID, fallback string) string {
	if v := answers[questionID].Single; v != "" {
		return v
	}
	return fallback
}
