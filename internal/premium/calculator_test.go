package premium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"underwriting-engine/internal/config"
	"underwriting-engine/internal/models"
)

func TestDetermineMedicalLoading_LoadingEngineResultWins(t *testing.T) {
	loading := &models.LoadingResult{TotalLoadingPct: 62.5}
	pct := DetermineMedicalLoading(16770, 40, &models.RiskAssessment{MedicalRisk: 0.9}, loading)
	assert.Equal(t, 62.5, pct)
}

func TestDetermineMedicalLoading_AgentTotalWithoutLoadingDefaultsTo40(t *testing.T) {
	pct := DetermineMedicalLoading(16770, 0, nil, nil)
	assert.Equal(t, 40.0, pct)
}

func TestDetermineMedicalLoading_AgentLoadingAloneIsUsed(t *testing.T) {
	pct := DetermineMedicalLoading(0, 55, nil, nil)
	assert.Equal(t, 55.0, pct)
}

func TestDetermineMedicalLoading_RiskDerivedIsClampedToRange(t *testing.T) {
	pct := DetermineMedicalLoading(0, 0, &models.RiskAssessment{MedicalRisk: 2.0}, nil)
	assert.GreaterOrEqual(t, pct, 0.0)
	assert.LessOrEqual(t, pct, 200.0)
}

func TestDetermineMedicalLoading_FallsBackTo25(t *testing.T) {
	pct := DetermineMedicalLoading(0, 0, nil, nil)
	assert.Equal(t, 25.0, pct)
}

func TestCalculate_StrictSplitAppliesExactlyAt16770(t *testing.T) {
	cfg := &config.Config{StrictPremiumConformance: true}
	coverages := []models.Coverage{
		{CoverType: models.CoverTermLife, SumAssured: 400000},
		{CoverType: models.CoverCriticalIllness, SumAssured: 100000},
	}
	results := Calculate(cfg, coverages, 16770, 0, nil)

	var total float64
	for _, r := range results {
		total += r.FinalPremium
	}
	assert.Equal(t, float64(13080+3488), total)
}

func TestCalculate_ProportionalSplitWhenStrictDisabled(t *testing.T) {
	cfg := &config.Config{StrictPremiumConformance: false}
	coverages := []models.Coverage{{CoverType: models.CoverTermLife, SumAssured: 400000}}
	results := Calculate(cfg, coverages, 16770, 0, nil)

	require.Len(t, results, 1)
	want := float64(int(16770 * 0.78))
	assert.Equal(t, want, results[0].FinalPremium)
}

func TestCalculate_AccidentalDeathNeverLoaded(t *testing.T) {
	coverages := []models.Coverage{{CoverType: models.CoverAccidentalDeath, SumAssured: 200000}}
	results := fromRisk(coverages, 45.0, nil)

	require.Len(t, results, 1)
	assert.Zero(t, results[0].TotalLoadingPct)
	assert.Equal(t, results[0].BasePremium, results[0].FinalPremium)
}

func TestTopLoadings_CapsAtN(t *testing.T) {
	var loadings []models.MedicalLoading
	for i := 0; i < 8; i++ {
		loadings = append(loadings, models.MedicalLoading{})
	}
	capped := topLoadings(loadings, 5)
	assert.Len(t, capped, 5)
}
