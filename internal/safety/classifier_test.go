package safety_test

import (
	"strings"
	"testing"

	"github.com/sanovox/sanovox/internal/safety"
)

// --- Risk levels ---

func TestRiskLevel_Ordering(t *testing.T) {
	t.Parallel()

	if !(safety.RiskLow < safety.RiskMedium && safety.RiskMedium < safety.RiskHigh && safety.RiskHigh < safety.RiskCritical) {
		t.Error("risk levels are not strictly ordered LOW < MEDIUM < HIGH < CRITICAL")
	}
}

func TestRiskLevel_String(t *testing.T) {
	t.Parallel()

	cases := map[safety.RiskLevel]string{
		safety.RiskLow:      "low",
		safety.RiskMedium:   "medium",
		safety.RiskHigh:     "high",
		safety.RiskCritical: "critical",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("RiskLevel(%d).String() = %q, want %q", level, got, want)
		}
	}
}

// --- Classification ---

func TestCheckSafety_NoTriggers(t *testing.T) {
	t.Parallel()

	c := safety.New()
	got := c.CheckSafety("What are the side effects of paracetamol?")

	if got.Level != safety.RiskLow {
		t.Errorf("Level = %v, want LOW", got.Level)
	}
	if !got.IsSafe {
		t.Error("IsSafe = false, want true")
	}
	if got.Message != safety.MessageLow {
		t.Errorf("Message = %q, want %q", got.Message, safety.MessageLow)
	}
	if len(got.TriggeredKeywords) != 0 {
		t.Errorf("TriggeredKeywords = %v, want none", got.TriggeredKeywords)
	}
	if got.Reason != "No risk detected" {
		t.Errorf("Reason = %q, want the no-risk sentinel", got.Reason)
	}
}

func TestCheckSafety_MonotonicEscalation(t *testing.T) {
	t.Parallel()

	c := safety.New()
	// "bleeding" alone is MEDIUM; "stopped taking" is HIGH. The weaker match
	// must never lower the level, regardless of scan order.
	got := c.CheckSafety("I'm bleeding and I stopped taking my warfarin")

	if got.Level != safety.RiskHigh {
		t.Errorf("Level = %v, want HIGH", got.Level)
	}
	if got.IsSafe {
		t.Error("IsSafe = true, want false")
	}
	wantTriggered := []string{"bleeding:bleeding", "medication_danger:stopped taking"}
	if len(got.TriggeredKeywords) != len(wantTriggered) {
		t.Fatalf("TriggeredKeywords = %v, want %v", got.TriggeredKeywords, wantTriggered)
	}
	for i, tag := range wantTriggered {
		if got.TriggeredKeywords[i] != tag {
			t.Errorf("TriggeredKeywords[%d] = %q, want %q", i, got.TriggeredKeywords[i], tag)
		}
	}
}

func TestCheckSafety_CombinationForcesCritical(t *testing.T) {
	t.Parallel()

	c := safety.New()
	// No category keyword matches here; only the (chest × tight) combination.
	got := c.CheckSafety("my chest feels tight")

	if got.Level != safety.RiskCritical {
		t.Errorf("Level = %v, want CRITICAL", got.Level)
	}
	if got.IsSafe {
		t.Error("IsSafe = true, want false")
	}
	if !containsTag(got.TriggeredKeywords, "combination:critical") {
		t.Errorf("TriggeredKeywords = %v, want combination:critical present", got.TriggeredKeywords)
	}
	if !strings.Contains(got.Reason, "Critical combination detected") {
		t.Errorf("Reason = %q, want combination reason", got.Reason)
	}
}

func TestCheckSafety_EmergencyGate(t *testing.T) {
	t.Parallel()

	c := safety.New()
	got := c.CheckSafety("I have severe chest pain and I can't breathe")

	if got.Level != safety.RiskCritical {
		t.Errorf("Level = %v, want CRITICAL", got.Level)
	}
	if got.IsSafe {
		t.Error("IsSafe = true, want false")
	}
	if got.Message != safety.MessageCritical {
		t.Errorf("Message = %q, want the emergency-services text", got.Message)
	}
	for _, tag := range []string{"cardiac:chest pain", "breathing:can't breathe", "combination:critical"} {
		if !containsTag(got.TriggeredKeywords, tag) {
			t.Errorf("TriggeredKeywords = %v, want %q present", got.TriggeredKeywords, tag)
		}
	}
}

func TestCheckSafety_ExhaustiveAccumulation(t *testing.T) {
	t.Parallel()

	c := safety.New()
	got := c.CheckSafety("I feel dizzy and numb and I forgot my insulin")

	// Both the MEDIUM (neurological) and HIGH (medication_danger) triggers
	// must be recorded even though only one decides the level.
	if !containsTag(got.TriggeredKeywords, "neurological:numb") {
		t.Errorf("TriggeredKeywords = %v, want neurological:numb present", got.TriggeredKeywords)
	}
	if !containsTag(got.TriggeredKeywords, "medication_danger:forgot") {
		t.Errorf("TriggeredKeywords = %v, want medication_danger:forgot present", got.TriggeredKeywords)
	}
	if got.Level != safety.RiskHigh {
		t.Errorf("Level = %v, want HIGH", got.Level)
	}
	if !strings.Contains(got.Reason, "High-risk medication_danger query") {
		t.Errorf("Reason = %q, want the medication_danger reason", got.Reason)
	}
}

func TestCheckSafety_CaseInsensitive(t *testing.T) {
	t.Parallel()

	c := safety.New()
	got := c.CheckSafety("I HAVE CHEST PAIN")
	if got.Level != safety.RiskCritical {
		t.Errorf("Level = %v, want CRITICAL for uppercase input", got.Level)
	}
}

func TestCheckSafety_MediumIsSafe(t *testing.T) {
	t.Parallel()

	c := safety.New()
	got := c.CheckSafety("there was a little blood when I brushed my teeth")

	if got.Level != safety.RiskMedium {
		t.Errorf("Level = %v, want MEDIUM", got.Level)
	}
	if !got.IsSafe {
		t.Error("IsSafe = false, want true — MEDIUM permits a caveated answer")
	}
	if got.Message != safety.MessageMedium {
		t.Errorf("Message = %q, want the consult-provider caveat", got.Message)
	}
}

// --- Question-context gate ---

func TestCheckSafety_QuestionGateCapsStatements(t *testing.T) {
	t.Parallel()

	gated := safety.New(safety.WithQuestionGate(true))

	// A bare mention without a question cue is capped at MEDIUM.
	got := gated.CheckSafety("I took an extra tablet this morning")
	if got.Level != safety.RiskMedium {
		t.Errorf("gated statement Level = %v, want MEDIUM", got.Level)
	}
	if !got.IsSafe {
		t.Error("gated statement IsSafe = false, want true")
	}

	// The same keyword inside a question escalates fully.
	got = gated.CheckSafety("Should I take an extra tablet this morning?")
	if got.Level != safety.RiskHigh {
		t.Errorf("gated question Level = %v, want HIGH", got.Level)
	}
	if got.IsSafe {
		t.Error("gated question IsSafe = true, want false")
	}
}

func TestCheckSafety_QuestionGateNeverCapsCombinations(t *testing.T) {
	t.Parallel()

	gated := safety.New(safety.WithQuestionGate(true))
	got := gated.CheckSafety("my chest feels tight")

	if got.Level != safety.RiskCritical {
		t.Errorf("Level = %v, want CRITICAL — combinations bypass the gate", got.Level)
	}
}

func TestCheckSafety_DefaultPolicyEscalatesStatements(t *testing.T) {
	t.Parallel()

	c := safety.New()
	got := c.CheckSafety("I took an extra tablet this morning")
	if got.Level != safety.RiskHigh {
		t.Errorf("Level = %v, want HIGH under the defensive default", got.Level)
	}
}

// --- Custom tables ---

func TestCheckSafety_CustomCategories(t *testing.T) {
	t.Parallel()

	c := safety.New(
		safety.WithCategories([]safety.Category{
			{Name: "test", Keywords: []string{"zebra"}, Escalation: safety.RiskCritical},
		}),
		safety.WithCombinations(nil),
	)

	if got := c.CheckSafety("I saw a zebra"); got.Level != safety.RiskCritical {
		t.Errorf("Level = %v, want CRITICAL from custom table", got.Level)
	}
	// Default keywords are gone.
	if got := c.CheckSafety("I have chest pain"); got.Level != safety.RiskLow {
		t.Errorf("Level = %v, want LOW with replaced tables", got.Level)
	}
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
