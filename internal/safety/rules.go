package safety

// Canned responses per final risk level. Unsafe levels replace the
// substantive answer entirely; the agent never hedges when blocked.
const (
	MessageCritical = "This sounds like a medical emergency. Please call emergency services (999 in UK, 911 in US) or go to A&E immediately."
	MessageHigh     = "I cannot provide medical advice on this matter. Please contact your GP or healthcare provider immediately."
	MessageMedium   = "I can provide general information, but please consult with your healthcare provider for personalized medical advice."
	MessageLow      = "Safe to provide general information."
)

// noRiskReason is the sentinel reason when no rule triggered.
const noRiskReason = "No risk detected"

// askingPhrases are the question cues consulted by the question-context
// gate ([WithQuestionGate]).
var askingPhrases = []string{
	"should i", "can i", "is it safe", "is it dangerous", "what do i",
}

// defaultCategories is the risk-keyword table. Order is fixed so that
// triggered keywords and reasons are reported deterministically. The lists
// are illustrative; a production deployment would source them from a
// clinical symptoms database.
var defaultCategories = []Category{
	{
		Name:       "dosage",
		Keywords:   []string{"double", "triple", "increase", "more", "extra"},
		Escalation: RiskHigh,
	},
	{
		Name: "cardiac",
		Keywords: []string{
			"heart attack", "chest pain", "heart pain", "cardiac arrest",
			"irregular heartbeat", "fluttery", "palpitations",
		},
		Escalation: RiskCritical,
	},
	{
		Name: "breathing",
		Keywords: []string{
			"can't breathe", "difficulty breathing", "shortness of breath",
			"choking", "suffocating",
		},
		Escalation: RiskCritical,
	},
	{
		Name:       "severe_pain",
		Keywords:   []string{"severe pain", "worst pain", "unbearable", "extreme pain"},
		Escalation: RiskHigh,
	},
	{
		Name:       "bleeding",
		Keywords:   []string{"bleeding", "blood", "hemorrhage"},
		Escalation: RiskMedium,
	},
	{
		Name:       "mental_health",
		Keywords:   []string{"suicide", "kill myself", "end it", "self-harm", "hurt myself"},
		Escalation: RiskCritical,
	},
	{
		Name:       "allergic",
		Keywords:   []string{"allergic reaction", "anaphylaxis", "swelling throat", "hives"},
		Escalation: RiskCritical,
	},
	{
		Name:       "neurological",
		Keywords:   []string{"stroke", "seizure", "paralysis", "numb", "tingling"},
		Escalation: RiskMedium,
	},
	{
		Name:       "medication_danger",
		Keywords:   []string{"stopped taking", "ran out", "skip", "forgot"},
		Escalation: RiskHigh,
	},
}

// defaultCombinations are the cross-category triggers that force CRITICAL.
var defaultCombinations = []Combination{
	{
		First:  []string{"heart", "chest", "cardiac"},
		Second: []string{"pain", "ache", "pressure", "tight"},
	},
	{
		First:  []string{"breathe", "breathing"},
		Second: []string{"difficult", "hard", "can't", "cannot"},
	},
	{
		First:  []string{"dose", "dosage", "medication"},
		Second: []string{"double", "increase", "more", "change"},
	},
}

// messageFor returns the canned response for the final level.
func messageFor(level RiskLevel) string {
	switch level {
	case RiskCritical:
		return MessageCritical
	case RiskHigh:
		return MessageHigh
	case RiskMedium:
		return MessageMedium
	default:
		return MessageLow
	}
}
