package models

// LabResult is a single categorized lab value as extracted from a medical report.
type LabResult struct {
	Value          string `json:"value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"referenceRange"`
}

// ReportRecord is one per-report extraction outcome.
type ReportRecord struct {
	ExtractionSuccessful bool   `json:"extractionSuccessful"`
	PatientName          string `json:"patientName,omitempty"`
	ReportDate           string `json:"reportDate,omitempty"`
	Facility             string `json:"facility,omitempty"`
	LabNumber            string `json:"labNumber,omitempty"`

	LabResults map[string]LabResult `json:"labResults,omitempty"`

	NormalValues   []string `json:"normalValues,omitempty"`
	AbnormalValues []string `json:"abnormalValues,omitempty"`
	CriticalAlerts []string `json:"criticalAlerts,omitempty"`
}

// ExtractedMedical is the immutable sequence of per-report extraction records for one applicant.
type ExtractedMedical struct {
	Reports []ReportRecord `json:"reports"`
}

// MedicalFindings is the derived output of the Medical Analyzer (component A).
type MedicalFindings struct {
	NormalValues   []string `json:"normalValues"`
	AbnormalValues []string `json:"abnormalValues"`
	CriticalAlerts []string `json:"criticalAlerts"`
	RiskFactors    []string `json:"riskFactors"`
	// RiskScore is in [0,1] where 1 = healthiest.
	RiskScore float64 `json:"riskScore"`
}
