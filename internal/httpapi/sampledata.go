package httpapi

import "underwriting-engine/internal/models"

// SampleRequest is the canned application body served by /sample-data and processed by /demo.
func SampleRequest() models.ApplicationRequest {
	var req models.ApplicationRequest

	req.PersonalInfo.Name = "Jordan Ellis"
	req.PersonalInfo.Age = 41
	req.PersonalInfo.Gender = "M"
	req.PersonalInfo.Occupation = "Software Engineer"
	req.PersonalInfo.Income.Annual = 95000

	req.ApplicationDetails.ApplicationNumber = "APP-DEMO-0001"
	req.ApplicationDetails.ApplicationDate = "2026-07-31"

	req.InsuranceCoverage.TotalSumAssured = 500000
	req.InsuranceCoverage.CoversRequested = []struct {
		CoverType  string  `json:"coverType"`
		SumAssured float64 `json:"sumAssured"`
		Term       int     `json:"term"`
	}{
		{CoverType: models.CoverTermLife, SumAssured: 400000, Term: 20},
		{CoverType: models.CoverCriticalIllness, SumAssured: 100000, Term: 20},
	}

	req.Lifestyle = &struct {
		Smoker              bool    `json:"smoker"`
		CigarettesPerDay    int     `json:"cigarettesPerDay"`
		AlcoholUnitsPerWeek float64 `json:"alcoholUnitsPerWeek"`
		ExerciseFrequency   string  `json:"exerciseFrequency"`
	}{Smoker: false, AlcoholUnitsPerWeek: 4, ExerciseFrequency: "moderate"}

	req.Health = &struct {
		HeightCM float64 `json:"heightCm"`
		WeightKG float64 `json:"weightKg"`
	}{HeightCM: 178, WeightKG: 82}

	req.MedicalData = &models.ExtractedMedical{
		Reports: []models.ReportRecord{
			{
				ExtractionSuccessful: true,
				PatientName:          "Jordan Ellis",
				ReportDate:           "2026-07-15",
				Facility:             "City Diagnostics Lab",
				LabNumber:            "LN-88213",
				LabResults: map[string]models.LabResult{
					"Fasting Glucose": {Value: "98 mg/dL", Unit: "mg/dL", ReferenceRange: "70-99"},
					"Hemoglobin":      {Value: "14.2 g/dL", Unit: "g/dL", ReferenceRange: "13.5-17.5"},
				},
				NormalValues:   []string{"Fasting Glucose: 98 mg/dL", "Hemoglobin: 14.2 g/dL", "Blood Pressure: 118/76 mmHg"},
				AbnormalValues: []string{},
				CriticalAlerts: []string{},
			},
		},
	}

	return req
}
