package questions

// Display names for question categories.
var categoryNames = map[string]string{
	"technology": "Технологии",
	"philosophy": "Философия",
	"travel":     "Путешествия",
	"security":   "ИИ",
	"lifestyle":  "Образ жизни",
	"future":     "Будущее",
	"other":      "Другое",
}

func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "Другое"
}
