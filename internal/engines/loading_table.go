package engines

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"underwriting-engine/internal/models"
)

// condition is an intermediate match before age-factor and combiner are applied. The three
// affects* flags mirror the coverage-class applicability a human underwriter would note per
// condition: most conditions load every class, but several (high cholesterol, mild anemia,
// mild/moderate lifestyle findings, thyroid dysfunction, elevated/low WBC) are known not to
// affect every coverage class and are flagged accordingly below.
type condition struct {
	name       string
	loadingPct float64
	severity   models.Severity
	loadType   models.LoadingType
	reasoning  string
	affectsCI  bool
	affectsTL  bool
	affectsDI  bool
}

// allClasses is the default applicability for conditions the underlying condition touches
// uniformly across Critical Illness, Term Life, and Disability Income.
const allClasses = true

var (
	hba1cPattern   = regexp.MustCompile(`(?i)hba1c[^0-9]*([\d.]+)`)
	bpPattern      = regexp.MustCompile(`(?i)(\d{2,3})\s*/\s*(\d{2,3})`)
	hemoglobinVal  = regexp.MustCompile(`(?i)hemoglobin[^0-9]*([\d.]+)`)
	liverULNRatio  = regexp.MustCompile(`(?i)(ALT|AST|SGPT|SGOT)[^0-9]*([\d.]+)\s*x?\s*(?:uln|upper limit)?`)
	cholesterolVal = regexp.MustCompile(`(?i)(total\s+)?cholesterol[^0-9]*([\d.]+)\s*mg/dl`)
	wbcVal         = regexp.MustCompile(`(?i)(?:wbc|white blood cell)[^0-9]*([\d.]+)`)
	glucoseVal     = regexp.MustCompile(`(?i)(fasting|random)?\s*(?:glucose|blood sugar)[^0-9]*([\d.]+)\s*mg/dl`)
)

var (
	thyroidKeywords = []string{"tsh", "t3", "t4", "thyroid"}
	kidneyKeywords  = []string{"creatinine", "kidney", "renal", "urea"}
	cardiacKeywords = []string{"cardiac", "ecg", "echo", "arrhythmia", "valve"}
)

func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// matchHbA1c applies the HbA1c tariff ladder, closed on the upper side of each band.
func matchHbA1c(text string) (condition, bool) {
	m := hba1cPattern.FindStringSubmatch(text)
	if m == nil {
		return condition{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return condition{}, false
	}
	switch {
	case v >= 10.0:
		return condition{"Diabetes (HbA1c >= 10%)", 150, models.SeverityCritical, models.LoadingMedical,
			fmt.Sprintf("HbA1c %.1f%% indicates critical glycemic control", v), allClasses, allClasses, allClasses}, true
	case v >= 8.5:
		return condition{"Diabetes (HbA1c 8.5-9.9%)", 100, models.SeveritySevere, models.LoadingMedical,
			fmt.Sprintf("HbA1c %.1f%% indicates severe glycemic control", v), allClasses, allClasses, allClasses}, true
	case v >= 7.0:
		return condition{"Diabetes (HbA1c 7.0-8.4%)", 75, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("HbA1c %.1f%% indicates moderate glycemic control", v), allClasses, allClasses, allClasses}, true
	}
	return condition{}, false
}

// matchBloodPressure applies the hypertension tariff ladder.
func matchBloodPressure(text string) (condition, bool) {
	m := bpPattern.FindStringSubmatch(text)
	if m == nil {
		return condition{}, false
	}
	sys, err1 := strconv.Atoi(m[1])
	dia, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return condition{}, false
	}
	switch {
	case sys >= 180 || dia >= 110:
		return condition{"Hypertension (severe)", 100, models.SeveritySevere, models.LoadingMedical,
			fmt.Sprintf("BP %d/%d indicates severe hypertension", sys, dia), allClasses, allClasses, allClasses}, true
	case sys >= 160 || dia >= 100:
		return condition{"Hypertension (moderate)", 50, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("BP %d/%d indicates moderate hypertension", sys, dia), allClasses, allClasses, allClasses}, true
	}
	return condition{}, false
}

// matchHemoglobin applies the anemia tariff ladder, gender-aware for the mild tier. Mild anemia
// does not load Critical Illness cover; moderate anemia loads every class.
func matchHemoglobin(text string, gender string) (condition, bool) {
	m := hemoglobinVal.FindStringSubmatch(text)
	if m == nil {
		return condition{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return condition{}, false
	}
	if v < 10 {
		return condition{"Anemia (moderate)", 35, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("Hemoglobin %.1f indicates moderate anemia", v), allClasses, allClasses, allClasses}, true
	}
	femaleThreshold, maleThreshold := 12.0, 13.0
	threshold := maleThreshold
	if strings.EqualFold(gender, "female") || strings.EqualFold(gender, "f") {
		threshold = femaleThreshold
	}
	if v < threshold {
		return condition{"Anemia (mild)", 15, models.SeverityMild, models.LoadingMedical,
			fmt.Sprintf("Hemoglobin %.1f below reference for gender", v), false, allClasses, allClasses}, true
	}
	return condition{}, false
}

// matchLiverEnzymes applies the liver-enzyme-elevation tariff ladder (multiples of ULN). Mildly
// elevated enzymes do not load Critical Illness cover.
func matchLiverEnzymes(text string) (condition, bool) {
	m := liverULNRatio.FindStringSubmatch(text)
	if m == nil {
		return condition{}, false
	}
	ratio, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return condition{}, false
	}
	switch {
	case ratio >= 3:
		return condition{"Elevated liver enzymes (>3x ULN)", 80, models.SeveritySevere, models.LoadingMedical,
			fmt.Sprintf("%s at %.1fx upper limit of normal", m[1], ratio), allClasses, allClasses, allClasses}, true
	case ratio >= 2:
		return condition{"Elevated liver enzymes (2x ULN)", 40, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("%s at %.1fx upper limit of normal", m[1], ratio), allClasses, allClasses, allClasses}, true
	case ratio > 1:
		return condition{"Elevated liver enzymes (>ULN)", 20, models.SeverityMild, models.LoadingMedical,
			fmt.Sprintf("%s at %.1fx upper limit of normal", m[1], ratio), false, allClasses, allClasses}, true
	}
	return condition{}, false
}

// matchCholesterol applies the cholesterol tariff ladder. Elevated cholesterol loads Critical
// Illness and Term Life but not Disability Income.
func matchCholesterol(text string) (condition, bool) {
	m := cholesterolVal.FindStringSubmatch(text)
	if m == nil {
		return condition{}, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return condition{}, false
	}
	isTotal := strings.TrimSpace(m[1]) != ""
	switch {
	case isTotal && v > 300:
		return condition{"Very high cholesterol", 40, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("Total cholesterol %.0f mg/dL is very high", v), allClasses, allClasses, false}, true
	case isTotal && v > 240:
		return condition{"High cholesterol", 20, models.SeverityMild, models.LoadingMedical,
			fmt.Sprintf("Total cholesterol %.0f mg/dL is high", v), allClasses, allClasses, false}, true
	}
	return condition{}, false
}

// matchThyroid flags abnormal thyroid function. It does not load Critical Illness cover.
func matchThyroid(text string) (condition, bool) {
	if !containsAny(text, thyroidKeywords) {
		return condition{}, false
	}
	return condition{"Thyroid dysfunction", 25, models.SeverityMild, models.LoadingMedical,
		"Abnormal thyroid function detected", false, allClasses, allClasses}, true
}

// matchKidneyFunction flags a kidney/renal keyword anywhere in a report's critical alerts,
// abnormal values, or lab values.
func matchKidneyFunction(text string) (condition, bool) {
	if !containsAny(text, kidneyKeywords) {
		return condition{}, false
	}
	return condition{"Kidney function abnormality", 50, models.SeverityModerate, models.LoadingMedical,
		"Critical kidney function abnormality detected", allClasses, allClasses, allClasses}, true
}

// matchCardiacAbnormality flags a cardiac keyword anywhere in a report's critical alerts,
// abnormal values, or lab values, distinct from the numeric blood-pressure ladder above.
func matchCardiacAbnormality(text string) (condition, bool) {
	if !containsAny(text, cardiacKeywords) {
		return condition{}, false
	}
	return condition{"Cardiac abnormality", 75, models.SeverityModerate, models.LoadingMedical,
		"Critical cardiac abnormality detected", allClasses, allClasses, allClasses}, true
}

// matchMetabolic flags a general glucose/metabolic abnormality not already captured by the
// HbA1c or blood-sugar-value ladders.
func matchMetabolic(text string) (condition, bool) {
	if !strings.Contains(text, "metabolic") {
		return condition{}, false
	}
	return condition{"Metabolic abnormality", 30, models.SeverityMild, models.LoadingMedical,
		"Metabolic parameter abnormality detected", allClasses, allClasses, allClasses}, true
}

// matchBloodSugar applies the fasting/random glucose tariff ladder. Prediabetic fasting glucose
// does not load Disability Income.
func matchBloodSugar(text string) (condition, bool) {
	m := glucoseVal.FindStringSubmatch(text)
	if m == nil {
		return condition{}, false
	}
	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return condition{}, false
	}
	isFasting := strings.EqualFold(strings.TrimSpace(m[1]), "fasting")
	switch {
	case isFasting && v > 126:
		return condition{"Diabetes (fasting glucose)", 75, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("Fasting glucose %.0f mg/dL indicates diabetes", v), allClasses, allClasses, allClasses}, true
	case isFasting && v > 110:
		return condition{"Prediabetes (fasting glucose)", 25, models.SeverityMild, models.LoadingMedical,
			fmt.Sprintf("Fasting glucose %.0f mg/dL indicates prediabetes", v), allClasses, allClasses, false}, true
	case v > 200:
		return condition{"High random blood sugar", 40, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("Blood sugar %.0f mg/dL is elevated", v), allClasses, allClasses, allClasses}, true
	}
	return condition{}, false
}

// matchWBC applies the white-cell-count tariff ladder. Abnormal white cell counts do not load
// Term Life cover.
func matchWBC(text string) (condition, bool) {
	m := wbcVal.FindStringSubmatch(text)
	if m == nil {
		return condition{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return condition{}, false
	}
	switch {
	case v > 15000:
		return condition{"Elevated white blood cells", 30, models.SeverityModerate, models.LoadingMedical,
			fmt.Sprintf("WBC count %.0f/cmm indicates possible infection or inflammation", v), allClasses, false, allClasses}, true
	case v < 4000:
		return condition{"Low white blood cells", 25, models.SeverityMild, models.LoadingMedical,
			fmt.Sprintf("WBC count %.0f/cmm is below normal range", v), allClasses, false, allClasses}, true
	}
	return condition{}, false
}

// bmiLoading applies the obesity tariff ladder, with an inclusive lower bound on each band. Mild
// overweight does not load Critical Illness or Disability Income cover.
func bmiLoading(bmi float64) (condition, bool) {
	switch {
	case bmi >= 35:
		return condition{"Obesity (BMI >= 35)", 75, models.SeveritySevere, models.LoadingLifestyle,
			fmt.Sprintf("BMI %.1f indicates severe obesity", bmi), allClasses, allClasses, allClasses}, true
	case bmi >= 30:
		return condition{"Obesity (BMI 30-34.9)", 35, models.SeverityModerate, models.LoadingLifestyle,
			fmt.Sprintf("BMI %.1f indicates obesity", bmi), allClasses, allClasses, allClasses}, true
	case bmi >= 27:
		return condition{"Overweight (BMI 27-29.9)", 15, models.SeverityMild, models.LoadingLifestyle,
			fmt.Sprintf("BMI %.1f indicates overweight", bmi), false, allClasses, false}, true
	}
	return condition{}, false
}

// smokingLoading applies the smoking tariff ladder. Light smoking does not load Disability
// Income cover.
func smokingLoading(cigarettesPerDay int) (condition, bool) {
	switch {
	case cigarettesPerDay > 20:
		return condition{"Heavy smoking (>20/day)", 75, models.SeveritySevere, models.LoadingLifestyle,
			fmt.Sprintf("%d cigarettes/day indicates heavy smoking", cigarettesPerDay), allClasses, allClasses, allClasses}, true
	case cigarettesPerDay >= 11:
		return condition{"Moderate smoking (11-20/day)", 50, models.SeverityModerate, models.LoadingLifestyle,
			fmt.Sprintf("%d cigarettes/day indicates moderate smoking", cigarettesPerDay), allClasses, allClasses, allClasses}, true
	case cigarettesPerDay >= 1:
		return condition{"Light smoking (<=10/day)", 25, models.SeverityMild, models.LoadingLifestyle,
			fmt.Sprintf("%d cigarettes/day indicates light smoking", cigarettesPerDay), allClasses, allClasses, false}, true
	}
	return condition{}, false
}

// alcoholLoading applies the alcohol tariff ladder. Moderate use does not load Critical Illness
// or Disability Income cover.
func alcoholLoading(unitsPerWeek float64) (condition, bool) {
	switch {
	case unitsPerWeek > 21:
		return condition{"Heavy alcohol use (>21 units/wk)", 40, models.SeverityModerate, models.LoadingLifestyle,
			fmt.Sprintf("%.0f units/week indicates heavy alcohol use", unitsPerWeek), allClasses, allClasses, allClasses}, true
	case unitsPerWeek >= 15:
		return condition{"Moderate alcohol use (15-21 units/wk)", 15, models.SeverityMild, models.LoadingLifestyle,
			fmt.Sprintf("%.0f units/week indicates moderate alcohol use", unitsPerWeek), false, allClasses, false}, true
	}
	return condition{}, false
}

func ageFactor(age int) float64 {
	switch {
	case age <= 25:
		return 0.8
	case age <= 35:
		return 1.0
	case age <= 45:
		return 1.2
	case age <= 55:
		return 1.4
	case age <= 65:
		return 1.6
	default:
		return 2.0
	}
}
