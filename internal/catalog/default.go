package catalog

// Default returns the built-in diabetes, heart disease and hypertension catalog.
func Default() *Catalog {
	c, err := New(diabetes(), heartDisease(), hypertension())
	if err != nil {
		panic(err)
	}
	return c
}

func diabetes() Condition {
	return Condition{
		ID:   "diabetes",
		Name: "Diabetes",
		Factors: []Factor{
			{Name: "age", Label: "Age", Weight: 0.15, Rule: Above(45)},
			{Name: "bmi", Label: "BMI", Weight: 0.25, Rule: Above(30)},
			{Name: "glucose", Label: "Glucose", Weight: 0.30, Rule: Above(100)},
			{Name: "bp_systolic", Label: "Systolic BP", Weight: 0.20, Rule: Above(140)},
			{Name: "family_history", Label: "Family History", Weight: 0.10, Rule: Categorical(map[string]float64{
				"yes": 1,
				"no":  0,
			})},
		},
		Symptoms: []string{"Excessive thirst", "Frequent urination", "Unexplained weight loss", "Fatigue", "Blurred vision", "Slow healing wounds"},
		Advice: []AdviceRule{
			{Factor: "bmi", Op: OpGreater, Threshold: 30, Text: "Focus on weight management through diet and exercise"},
			{Factor: "glucose", Op: OpGreater, Threshold: 100, Text: "Monitor blood glucose levels regularly"},
			{Factor: "bp_systolic", Op: OpGreater, Threshold: 140, Text: "Control blood pressure through lifestyle changes"},
		},
		GeneralAdvice: []string{
			"Follow a balanced diet with limited processed sugars",
			"Engage in regular physical activity (150 minutes per week)",
		},
	}
}

func heartDisease() Condition {
	return Condition{
		ID:   "heart",
		Name: "Heart Disease",
		Factors: []Factor{
			{Name: "age", Label: "Age", Weight: 0.20, Rule: Above(50)},
			{Name: "cholesterol", Label: "Cholesterol", Weight: 0.25, Rule: Above(240)},
			{Name: "bp_systolic", Label: "Systolic BP", Weight: 0.20, Rule: Above(140)},
			{Name: "max_heart_rate", Label: "Max Heart Rate", Weight: 0.15, Rule: Below(100)},
			{Name: "chest_pain", Label: "Chest Pain", Weight: 0.20, Rule: Categorical(map[string]float64{
				"typical":      1,
				"atypical":     0.5,
				"non-anginal":  0.5,
				"asymptomatic": 0.5,
			})},
		},
		Symptoms: []string{"Chest pain", "Shortness of breath", "Irregular heartbeat", "Fatigue", "Swelling in legs", "Dizziness"},
		Advice: []AdviceRule{
			{Factor: "cholesterol", Op: OpGreater, Threshold: 240, Text: "Work on lowering cholesterol through diet and medication if needed"},
			{Factor: "bp_systolic", Op: OpGreater, Threshold: 140, Text: "Monitor and control blood pressure"},
			{Factor: "max_heart_rate", Op: OpLess, Threshold: 100, Text: "Consult a cardiologist about your heart rate"},
		},
		GeneralAdvice: []string{
			"Include omega-3 rich foods in your diet",
			"Quit smoking and limit alcohol consumption",
		},
	}
}

func hypertension() Condition {
	lowModerateHigh := map[string]float64{"high": 1, "moderate": 0.5, "low": 0}
	return Condition{
		ID:   "hypertension",
		Name: "Hypertension",
		Factors: []Factor{
			{Name: "age", Label: "Age", Weight: 0.20, Rule: Above(40)},
			{Name: "bmi", Label: "BMI", Weight: 0.25, Rule: Above(25)},
			{Name: "salt_intake", Label: "Salt Intake", Weight: 0.20, Rule: Categorical(lowModerateHigh)},
			{Name: "stress", Label: "Stress", Weight: 0.15, Rule: Categorical(lowModerateHigh)},
			// Exercise is inverted: little exercise is the risk.
			{Name: "exercise", Label: "Exercise", Weight: 0.20, Rule: Categorical(map[string]float64{
				"low":      1,
				"moderate": 0.5,
				"high":     0,
			})},
		},
		Symptoms: []string{"Headaches", "Dizziness", "Chest pain", "Shortness of breath", "Nosebleeds", "Vision problems"},
		Advice: []AdviceRule{
			{Factor: "bmi", Op: OpGreater, Threshold: 25, Text: "Maintain a healthy weight"},
			{Factor: "salt_intake", Op: OpEqual, Value: "high", Text: "Reduce sodium intake to less than 2g per day"},
			{Factor: "stress", Op: OpEqual, Value: "high", Text: "Practice stress management techniques"},
			{Factor: "exercise", Op: OpEqual, Value: "low", Text: "Increase physical activity to at least 150 minutes per week"},
		},
		GeneralAdvice: []string{
			"Monitor blood pressure regularly",
		},
	}
}
