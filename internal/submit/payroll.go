package submit

import (
	"fmt"
	"strings"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/models"
	"turbosap-client/internal/session"
)

// PayrollForm is the one-shot view of a payroll-area configuration. The chat
// page normally collects these answers interactively; batch submission (and
// retry after an aborted run) reuses the same plan machinery as the payment
// flow.
type PayrollForm struct {
	Frequencies []string

	// Patterns and Paydays are keyed by frequency ("weekly" -> "mon-sun").
	// Monthly has no pattern question.
	Patterns map[string]string
	Paydays  map[string]string

	// BusinessUnits is keyed by calendar combo key; a non-empty list means
	// the calendar is separated by business unit.
	BusinessUnits map[string][]string

	// Regions is keyed by calendar combo key; more than one region, or any
	// region beyond the mainland, means geographic separation.
	Regions map[string][]string
}

var validFrequencies = map[string]bool{
	"weekly": true, "biweekly": true, "semimonthly": true, "monthly": true,
}

var validRegions = map[string]bool{
	"mainland": true, "hawaii": true, "puerto_rico": true, "alaska": true,
}

var validPaydays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// ValidatePayrollForm checks the form before any answer is sent.
func ValidatePayrollForm(f PayrollForm) []errors.FieldError {
	var out []errors.FieldError
	hard := func(field, msg string) {
		out = append(out, errors.FieldError{Field: field, Message: msg, Severity: errors.SeverityError})
	}

	if len(f.Frequencies) == 0 {
		hard("frequencies", "select at least one pay frequency")
		return out
	}
	for _, freq := range f.Frequencies {
		if !validFrequencies[freq] {
			hard("frequencies", fmt.Sprintf("unknown pay frequency %q", freq))
			continue
		}
		payday, ok := f.Paydays[freq]
		if !ok || payday == "" {
			hard("paydays", fmt.Sprintf("a payday is required for the %s calendar", freq))
		} else if !validPaydays[payday] {
			hard("paydays", fmt.Sprintf("unknown payday %q for the %s calendar", payday, freq))
		}
	}

	for key, regions := range f.Regions {
		for _, region := range regions {
			if !validRegions[region] {
				hard("regions", fmt.Sprintf("unknown region %q for calendar %s", region, key))
			}
		}
	}

	return out
}

// NewPayrollPlan derives the payroll-area submission plan from the form
// itself: the per-calendar question ids depend on the selected frequencies,
// so the step list is generated rather than hand-enumerated.
func NewPayrollPlan(f PayrollForm) Plan[PayrollForm] {
	steps := []Step[PayrollForm]{
		{
			QuestionID: "q1_frequencies",
			Build:      func(f PayrollForm) models.Answer { return models.MultiAnswer(f.Frequencies...) },
		},
	}

	for _, freq := range f.Frequencies {
		freq := freq
		if freq != "monthly" {
			steps = append(steps, Step[PayrollForm]{
				QuestionID: "q1_" + freq + "_pattern",
				Build: func(f PayrollForm) models.Answer {
					return models.SingleAnswer(patternFor(f, freq))
				},
			})
		}
		steps = append(steps, Step[PayrollForm]{
			QuestionID: "q1_" + freq + "_payday",
			Build: func(f PayrollForm) models.Answer {
				return models.SingleAnswer(f.Paydays[freq])
			},
		})
	}

	for _, combo := range combosFor(f) {
		key := combo.Key
		steps = append(steps,
			Step[PayrollForm]{
				QuestionID: "business_" + key,
				Build: func(f PayrollForm) models.Answer {
					return models.BoolAnswer(len(f.BusinessUnits[key]) > 0)
				},
			},
			Step[PayrollForm]{
				QuestionID: "business_names_" + key,
				When:       func(f PayrollForm) bool { return len(f.BusinessUnits[key]) > 0 },
				Build: func(f PayrollForm) models.Answer {
					return models.SingleAnswer(strings.Join(f.BusinessUnits[key], ", "))
				},
			},
			Step[PayrollForm]{
				QuestionID: "geographic_" + key,
				Build: func(f PayrollForm) models.Answer {
					if multipleRegions(f.Regions[key]) {
						return models.SingleAnswer("multiple")
					}
					return models.SingleAnswer("mainland_only")
				},
			},
			Step[PayrollForm]{
				QuestionID: "regions_" + key,
				When:       func(f PayrollForm) bool { return multipleRegions(f.Regions[key]) },
				Build: func(f PayrollForm) models.Answer {
					return models.MultiAnswer(f.Regions[key]...)
				},
			},
		)
	}

	return Plan[PayrollForm]{
		Module:   models.ModulePayrollArea,
		Validate: ValidatePayrollForm,
		Steps:    steps,
		CheckComplete: func(resp *session.SubmitResponse) error {
			if len(resp.PayrollAreas) == 0 {
				return errors.NewConfigurationIncompleteError(string(models.ModulePayrollArea))
			}
			return nil
		},
	}
}

func patternFor(f PayrollForm, freq string) string {
	if p := f.Patterns[freq]; p != "" {
		return p
	}
	if freq == "semimonthly" {
		return "1-15_16-end"
	}
	return "mon-sun"
}

func combosFor(f PayrollForm) []models.CalendarCombo {
	answers := map[string]models.Answer{
		"q1_frequencies": models.MultiAnswer(f.Frequencies...),
	}
	for _, freq := range f.Frequencies {
		if freq != "monthly" {
			answers["q1_"+freq+"_pattern"] = models.SingleAnswer(patternFor(f, freq))
		}
		answers["q1_"+freq+"_payday"] = models.SingleAnswer(f.Paydays[freq])
	}
	return models.CalendarCombos(answers)
}

func multipleRegions(regions []string) bool {
	if len(regions) > 1 {
		return true
	}
	return len(regions) == 1 && regions[0] != "mainland"
}
