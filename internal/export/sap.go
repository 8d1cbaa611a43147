// internal/export/sap.go
package export

import (
	"strconv"
	"strings"

	"turbosap-client/internal/models"
)

// Fixed values SAP upload files expect regardless of the configuration.
const (
	sapTimeUnit          = "D"
	sapCalendarStartDate = "19000101"
	sapPayrollAreaText   = "Payroll Area"
	sapRunPayroll        = "X"
	sapDateModifier      = "01"
)

var frequencyDescriptions = map[string]string{
	"weekly":      "Weekly",
	"biweekly":    "Bi-weekly",
	"semimonthly": "Semi-monthly",
	"monthly":     "Monthly",
}

// PayrollAreasTable lists every generated payroll area with its reasoning
// trail joined for auditability.
func PayrollAreasTable(areas []models.PayrollArea) Table {
	t := Table{
		Headers: []string{
			"Code", "Description", "Frequency", "Period Pattern", "Pay Day",
			"Calendar ID", "Employee Count", "Business Unit", "Region", "Reasoning",
		},
	}
	for _, a := range areas {
		t.Rows = append(t.Rows, []string{
			a.Code,
			a.Description,
			a.Frequency,
			a.PeriodPattern,
			a.PayDay,
			a.CalendarID,
			strconv.Itoa(a.EmployeeCount),
			a.BusinessUnit,
			a.Region,
			strings.Join(a.Reasoning, "; "),
		})
	}
	return t
}

// CalendarIDTable emits one row per distinct calendar id, the file SAP's
// period parameter upload wants.
func CalendarIDTable(areas []models.PayrollArea) Table {
	t := Table{
		Headers: []string{
			"period_parameters", "period_parameter_name", "time_unit",
			"time_unit_desc", "start_date",
		},
	}

	seen := map[string]bool{}
	for _, a := range areas {
		calID := a.CalendarID
		if calID == "" {
			calID = "80"
		}
		if seen[calID] {
			continue
		}
		seen[calID] = true

		name := a.Description
		if name == "" {
			name = frequencyDescriptions[a.Frequency] + " Payroll"
		}
		t.Rows = append(t.Rows, []string{
			calID,
			name,
			sapTimeUnit,
			frequencyDescriptions[a.Frequency],
			sapCalendarStartDate,
		})
	}
	return t
}

// PayrollAreaConfigTable emits the payroll-area upload rows with the fixed
// SAP defaults filled in.
func PayrollAreaConfigTable(areas []models.PayrollArea) Table {
	t := Table{
		Headers: []string{
			"payroll_area", "payroll_area_text", "period_parameters",
			"run_payroll", "date_modifier",
		},
	}
	for _, a := range areas {
		calID := a.CalendarID
		if calID == "" {
			calID = "80"
		}
		t.Rows = append(t.Rows, []string{
			a.Code,
			sapPayrollAreaText,
			calID,
			sapRunPayroll,
			sapDateModifier,
		})
	}
	return t
}

// PaymentMethodsTable lists the generated payment methods.
func PaymentMethodsTable(methods []models.PaymentMethod) Table {
	t := Table{
		Headers: []string{
			"Code", "Description", "Used", "House Banks", "ACH File Spec",
			"Check Volume", "Check Number Range", "Reasoning",
		},
	}
	for _, m := range methods {
		used := "no"
		if m.Used {
			used = "yes"
		}
		t.Rows = append(t.Rows, []string{
			m.Code,
			m.Description,
			used,
			m.HouseBanks,
			m.ACHFileSpec,
			m.CheckVolume,
			m.CheckNumberRange,
			strings.Join(m.Reasoning, "; "),
		})
	}
	return t
}
