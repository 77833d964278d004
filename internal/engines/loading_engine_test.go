package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"underwriting-engine/internal/models"
)

func TestCalculateLoading_NoFindingsIsPreferred(t *testing.T) {
	a := models.Applicant{Physical: models.Physical{HeightCM: 175, WeightKG: 70}}
	result := CalculateLoading(a, models.ExtractedMedical{}, models.MedicalFindings{})

	assert.Zero(t, result.TotalLoadingPct)
	assert.Equal(t, models.CategoryPreferred, result.RiskCategory)
	assert.Len(t, result.Exclusions, len(baseExclusions))
}

func TestCalculateLoading_SevereHbA1cDrivesCriticalCategory(t *testing.T) {
	a := models.Applicant{Physical: models.Physical{HeightCM: 175, WeightKG: 70}, Age: 40}
	extracted := models.ExtractedMedical{
		Reports: []models.ReportRecord{
			{ExtractionSuccessful: true, AbnormalValues: []string{"HbA1c 11.2%"}},
		},
	}
	result := CalculateLoading(a, extracted, models.MedicalFindings{})

	assert.Greater(t, result.TotalLoadingPct, 0.0)
	assert.NotEmpty(t, result.Individual)
	assert.Equal(t, models.SeverityCritical, result.Individual[0].Severity)
}

func TestCombineLoadings_CriticalDominatesWithHalfWeightedRest(t *testing.T) {
	conditions := []condition{
		{name: "a", loadingPct: 100, severity: models.SeverityCritical},
		{name: "b", loadingPct: 50, severity: models.SeverityCritical},
	}
	total := combineLoadings(conditions)
	// max(100,50) + 0.5*50 = 125
	assert.Equal(t, 125.0, total)
}

func TestAgeFactor_Monotonic(t *testing.T) {
	prev := 0.0
	for _, age := range []int{20, 30, 40, 50, 60, 70} {
		f := ageFactor(age)
		assert.GreaterOrEqual(t, f, prev, "age factor should be non-decreasing at age %d", age)
		prev = f
	}
}

func TestMatchCholesterol_VeryHighSparesDisabilityIncome(t *testing.T) {
	c, ok := matchCholesterol("Total Cholesterol 320 mg/dL")
	assert.True(t, ok)
	assert.True(t, c.affectsCI)
	assert.True(t, c.affectsTL)
	assert.False(t, c.affectsDI)
}

func TestMatchThyroid_SparesCriticalIllness(t *testing.T) {
	c, ok := matchThyroid("TSH abnormal, recommend retest")
	assert.True(t, ok)
	assert.False(t, c.affectsCI)
	assert.True(t, c.affectsTL)
	assert.True(t, c.affectsDI)
}

func TestMatchKidneyFunction_LoadsEveryClass(t *testing.T) {
	c, ok := matchKidneyFunction("Creatinine elevated, renal function under review")
	assert.True(t, ok)
	assert.True(t, c.affectsCI)
	assert.True(t, c.affectsTL)
	assert.True(t, c.affectsDI)
}

func TestMatchCardiacAbnormality_DetectsKeyword(t *testing.T) {
	c, ok := matchCardiacAbnormality("Echo shows mild cardiac abnormality")
	assert.True(t, ok)
	assert.Equal(t, "Cardiac abnormality", c.name)
}

func TestMatchBloodSugar_PrediabetesSparesDisabilityIncome(t *testing.T) {
	c, ok := matchBloodSugar("Fasting glucose 118 mg/dL")
	assert.True(t, ok)
	assert.Equal(t, "Prediabetes (fasting glucose)", c.name)
	assert.False(t, c.affectsDI)
}

func TestMatchWBC_ElevatedSparesTermLife(t *testing.T) {
	c, ok := matchWBC("WBC 16200/cmm")
	assert.True(t, ok)
	assert.Equal(t, "Elevated white blood cells", c.name)
	assert.True(t, c.affectsCI)
	assert.False(t, c.affectsTL)
	assert.True(t, c.affectsDI)
}

func TestMatchHemoglobin_MildAnemiaSparesCriticalIllness(t *testing.T) {
	c, ok := matchHemoglobin("Hemoglobin 11.5 g/dL", "female")
	assert.True(t, ok)
	assert.Equal(t, "Anemia (mild)", c.name)
	assert.False(t, c.affectsCI)
}

func TestBmiLoading_MildOverweightSparesCriticalIllnessAndDisability(t *testing.T) {
	c, ok := bmiLoading(28.0)
	assert.True(t, ok)
	assert.False(t, c.affectsCI)
	assert.True(t, c.affectsTL)
	assert.False(t, c.affectsDI)
}

func TestAlcoholLoading_ModerateSparesCriticalIllnessAndDisability(t *testing.T) {
	c, ok := alcoholLoading(18)
	assert.True(t, ok)
	assert.False(t, c.affectsCI)
	assert.False(t, c.affectsDI)
}

func TestSmokingLoading_LightSparesDisabilityIncome(t *testing.T) {
	c, ok := smokingLoading(5)
	assert.True(t, ok)
	assert.True(t, c.affectsCI)
	assert.True(t, c.affectsTL)
	assert.False(t, c.affectsDI)
}
