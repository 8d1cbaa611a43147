package models

// PayrollArea is a generated SAP payroll area configuration record. Beyond
// display and CSV serialization the client treats it as opaque.
type PayrollArea struct {
	Code          string   `json:"code"`
	Description   string   `json:"description"`
	Frequency     string   `json:"frequency"`
	PeriodPattern string   `json:"periodPattern"`
	PayDay        string   `json:"payDay"`
	CalendarID    string   `json:"calendarId"`
	EmployeeCount int      `json:"employeeCount"`
	BusinessUnit  string   `json:"businessUnit,omitempty"`
	Region        string   `json:"region,omitempty"`
	Reasoning     []string `json:"reasoning"`
}

// PaymentMethod is a generated SAP payment method configuration record.
type PaymentMethod struct {
	Code             string   `json:"code"`
	Description      string   `json:"description"`
	Used             bool     `json:"used"`
	HouseBanks       string   `json:"house_banks,omitempty"`
	ACHFileSpec      string   `json:"ach_file_spec,omitempty"`
	CheckVolume      string   `json:"check_volume,omitempty"`
	CheckNumberRange string   `json:"check_number_range,omitempty"`
	Reasoning        []string `json:"reasoning"`
}
