package submit

import (
	"strings"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/models"
	"turbosap-client/internal/session"
)

// Payment method codes as SAP knows them.
const (
	MethodACH    = "P" // direct deposit ACH
	MethodCheck  = "Q" // physical check
	MethodCard   = "K" // pay card / debit card
	MethodManual = "M" // manual / off-cycle check
)

// Question ids of the payment-method flow, in the fixed order the engine
// expects them.
const (
	qMethodP  = "q1_payment_method_p"
	qPHouse   = "q1_p_house_banks"
	qPACHSpec = "q1_p_ach_spec"
	qMethodQ  = "q2_payment_method_q"
	qQVolume  = "q2_q_volume"
	qQRange   = "q2_q_check_range"
	qMethodK  = "q3_payment_method_k"
	qMethodM  = "q4_payment_method_m"
	qPreNote  = "q5_pre_note_confirmation"
)

// PaymentForm is the flat one-shot form the payment-method page submits.
type PaymentForm struct {
	// Selected holds the chosen method codes (P, Q, K, M).
	Selected map[string]bool

	// ACH (P) details.
	HouseBanks    string
	ACHFileSpec   string
	RoutingNumber string

	// Check (Q) details. The manual range belongs to the M sub-variant;
	// both ranges travel in one compound answer.
	CheckVolume      string
	CheckRange       string
	ManualCheckRange string

	// PreNote is "agree" or "disagree" with skipping the pre-note process.
	PreNote string
}

func (f PaymentForm) selected(code string) bool {
	return f.Selected[code]
}

// ValidatePaymentForm runs every client-side check. Hard errors block
// submission entirely; warnings are surfaced but do not block.
func ValidatePaymentForm(f PaymentForm) []errors.FieldError {
	var out []errors.FieldError

	hard := func(field, msg string) {
		out = append(out, errors.FieldError{Field: field, Message: msg, Severity: errors.SeverityError})
	}
	soft := func(field, msg string) {
		out = append(out, errors.FieldError{Field: field, Message: msg, Severity: errors.SeverityWarning})
	}

	if f.selected(MethodACH) {
		if strings.TrimSpace(f.HouseBanks) == "" {
			hard("houseBanks", "house banks are required for direct deposit")
		}
		if strings.TrimSpace(f.ACHFileSpec) == "" {
			hard("achFileSpec", "an ACH file specification is required for direct deposit")
		} else if !strings.Contains(strings.ToLower(f.ACHFileSpec), "nacha") {
			soft("achFileSpec", "ACH file specification does not mention NACHA; double-check the format")
		}
		if err := ValidateRoutingNumber(f.RoutingNumber); err != nil {
			hard("routingNumber", err.Error())
		}
	}

	var checkRange CheckRange
	haveCheckRange := false
	if f.selected(MethodCheck) {
		if strings.TrimSpace(f.CheckVolume) == "" {
			hard("checkVolume", "check volume is required when physical checks are used")
		} else if !strings.ContainsAny(f.CheckVolume, "0123456789") {
			soft("checkVolume", "check volume contains no number; double-check the value")
		}
		if strings.TrimSpace(f.CheckRange) == "" {
			hard("checkRange", "a check number range is required when physical checks are used")
		} else {
			r, err := ParseCheckRange(f.CheckRange)
			if err != nil {
				hard("checkRange", err.Error())
			} else {
				checkRange, haveCheckRange = r, true
			}
		}
	}

	if strings.TrimSpace(f.ManualCheckRange) != "" {
		r, err := ParseCheckRange(f.ManualCheckRange)
		if err != nil {
			hard("manualCheckRange", err.Error())
		} else if haveCheckRange && checkRange.Overlaps(r) {
			hard("manualCheckRange", "manual check range overlaps the regular check range")
		}
	}

	switch f.PreNote {
	case "agree", "disagree":
	default:
		hard("preNote", "choose whether to agree with skipping the pre-note process")
	}

	return out
}

// NewPaymentPlan builds the payment-method submission plan: every boolean
// method question is always sent, follow-ups only when their parent method
// is selected, and the two check sub-variant ranges travel as one compound
// answer.
func NewPaymentPlan() Plan[PaymentForm] {
	return Plan[PaymentForm]{
		Module:   models.ModulePaymentMethod,
		Validate: ValidatePaymentForm,
		Steps: []Step[PaymentForm]{
			{
				QuestionID: qMethodP,
				Build:      func(f PaymentForm) models.Answer { return models.BoolAnswer(f.selected(MethodACH)) },
			},
			{
				QuestionID: qPHouse,
				When:       func(f PaymentForm) bool { return f.selected(MethodACH) },
				Build:      func(f PaymentForm) models.Answer { return models.SingleAnswer(f.HouseBanks) },
			},
			{
				QuestionID: qPACHSpec,
				When:       func(f PaymentForm) bool { return f.selected(MethodACH) },
				Build:      func(f PaymentForm) models.Answer { return models.SingleAnswer(f.ACHFileSpec) },
			},
			{
				QuestionID: qMethodQ,
				Build:      func(f PaymentForm) models.Answer { return models.BoolAnswer(f.selected(MethodCheck)) },
			},
			{
				QuestionID: qQVolume,
				When:       func(f PaymentForm) bool { return f.selected(MethodCheck) },
				Build:      func(f PaymentForm) models.Answer { return models.SingleAnswer(f.CheckVolume) },
			},
			{
				QuestionID: qQRange,
				When:       func(f PaymentForm) bool { return f.selected(MethodCheck) },
				Build:      buildCheckRangeAnswer,
			},
			{
				QuestionID: qMethodK,
				Build:      func(f PaymentForm) models.Answer { return models.BoolAnswer(f.selected(MethodCard)) },
			},
			{
				QuestionID: qMethodM,
				Build:      func(f PaymentForm) models.Answer { return models.BoolAnswer(f.selected(MethodManual)) },
			},
			{
				QuestionID: qPreNote,
				Build:      func(f PaymentForm) models.Answer { return models.SingleAnswer(f.PreNote) },
			},
		},
		CheckComplete: func(resp *session.SubmitResponse) error {
			if len(resp.PaymentMethods) == 0 {
				return errors.NewConfigurationIncompleteError(string(models.ModulePaymentMethod))
			}
			return nil
		},
	}
}

func buildCheckRangeAnswer(f PaymentForm) models.Answer {
	payload := map[string]string{"regular": strings.TrimSpace(f.CheckRange)}
	if manual := strings.TrimSpace(f.ManualCheckRange); manual != "" {
		payload["manual"] = manual
	}
	return models.ObjectAnswer(payload)
}
