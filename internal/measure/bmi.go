package measure

import (
	"fmt"
	"math"
)

// Keys read by DeriveBMI and written by it.
const (
	KeyBMI    = "bmi"
	KeyWeight = "weight_kg"
	KeyHeight = "height_cm"
)

// BMI returns weight / (height in metres)^2.
func BMI(weightKg, heightCm float64) (float64, error) {
	if !positive(weightKg) {
		return 0, fmt.Errorf("measure: weight must be a positive number, got %v", weightKg)
	}
	if !positive(heightCm) {
		return 0, fmt.Errorf("measure: height must be a positive number, got %v", heightCm)
	}
	m := heightCm / 100
	return weightKg / (m * m), nil
}

// BMICategory buckets a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// DeriveBMI fills in bmi from weight_kg and height_cm when bmi was not
// supplied directly. m is returned unchanged when there is nothing to derive.
func DeriveBMI(m Measurements) (Measurements, error) {
	if _, ok := m[KeyBMI]; ok {
		return m, nil
	}
	wv, okW := m[KeyWeight]
	hv, okH := m[KeyHeight]
	if !okW || !okH {
		return m, nil
	}
	w, okW := wv.Float()
	h, okH := hv.Float()
	if !okW || !okH {
		return nil, fmt.Errorf("measure: %s and %s must be numbers", KeyWeight, KeyHeight)
	}
	bmi, err := BMI(w, h)
	if err != nil {
		return nil, err
	}
	out := m.Clone()
	out[KeyBMI] = Number(bmi)
	return out, nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
