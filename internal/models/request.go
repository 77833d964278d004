package models

// ApplicationRequest is the wire shape POSTed to /process, /process/stream, /demo.
// It mirrors the nested JSON contract clients submit, rather than the flat internal Applicant.
type ApplicationRequest struct {
	PersonalInfo struct {
		Name       string `json:"name" validate:"required"`
		Age        int    `json:"age" validate:"required,gte=18,lte=80"`
		Gender     string `json:"gender"`
		Occupation string `json:"occupation"`
		Income     struct {
			Annual float64 `json:"annual"`
		} `json:"income"`
	} `json:"personalInfo" validate:"required"`

	ApplicationDetails struct {
		ApplicationNumber string `json:"applicationNumber" validate:"required"`
		ApplicationDate   string `json:"applicationDate"`
	} `json:"applicationDetails" validate:"required"`

	InsuranceCoverage struct {
		TotalSumAssured float64 `json:"totalSumAssured"`
		CoversRequested []struct {
			CoverType  string  `json:"coverType"`
			SumAssured float64 `json:"sumAssured"`
			Term       int     `json:"term"`
		} `json:"coversRequested" validate:"required,min=1"`
	} `json:"insuranceCoverage" validate:"required"`

	Lifestyle *struct {
		Smoker              bool    `json:"smoker"`
		CigarettesPerDay    int     `json:"cigarettesPerDay"`
		AlcoholUnitsPerWeek float64 `json:"alcoholUnitsPerWeek"`
		ExerciseFrequency   string  `json:"exerciseFrequency"`
	} `json:"lifestyle"`

	Health *struct {
		HeightCM float64 `json:"heightCm"`
		WeightKG float64 `json:"weightKg"`
	} `json:"health"`

	MedicalData *ExtractedMedical `json:"medicalData"`
}

// ToApplicant flattens the wire request into the internal, workflow-immutable Applicant.
func (r ApplicationRequest) ToApplicant() Applicant {
	a := Applicant{
		ApplicationID: r.ApplicationDetails.ApplicationNumber,
		Name:          r.PersonalInfo.Name,
		Age:           r.PersonalInfo.Age,
		Gender:        r.PersonalInfo.Gender,
		Occupation:    r.PersonalInfo.Occupation,
		AnnualIncome:  r.PersonalInfo.Income.Annual,
	}
	for _, c := range r.InsuranceCoverage.CoversRequested {
		a.Coverages = append(a.Coverages, Coverage{
			CoverType:  c.CoverType,
			SumAssured: c.SumAssured,
			Term:       c.Term,
		})
	}
	if r.Lifestyle != nil {
		a.Lifestyle = Lifestyle{
			Smoker:              r.Lifestyle.Smoker,
			CigarettesPerDay:    r.Lifestyle.CigarettesPerDay,
			AlcoholUnitsPerWeek: r.Lifestyle.AlcoholUnitsPerWeek,
			ExerciseFrequency:   r.Lifestyle.ExerciseFrequency,
		}
	}
	if r.Health != nil {
		a.Physical = Physical{HeightCM: r.Health.HeightCM, WeightKG: r.Health.WeightKG}
	}
	return a
}

// ExtractedOrEmpty returns the request's medical data, or an empty-but-valid value when absent.
func (r ApplicationRequest) ExtractedOrEmpty() ExtractedMedical {
	if r.MedicalData != nil {
		return *r.MedicalData
	}
	return ExtractedMedical{}
}
