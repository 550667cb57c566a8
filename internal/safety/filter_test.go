package safety

import "testing"

func TestIsUnsafe_MarkerPhrases(t *testing.T) {
	cases := []string{
		"what dose for me is right",
		"is this an EMERGENCY?",
		"please diagnose me",
		"my symptoms are getting worse",
		"should i take metformin with food",
		"can you renew my prescription",
	}
	for _, c := range cases {
		if !IsUnsafe(c) {
			t.Fatalf("expected unsafe for %q", c)
		}
	}
}

func TestIsUnsafe_CaseAndPosition(t *testing.T) {
	cases := []string{
		"DOSE FOR ME",
		"Dose For Me please",
		"tell me, Should I Take this?",
		"prefix my symptoms suffix",
	}
	for _, c := range cases {
		if !IsUnsafe(c) {
			t.Fatalf("expected unsafe for %q", c)
		}
	}
}

func TestIsUnsafe_SafeQueries(t *testing.T) {
	cases := []string{
		"",
		"What are current treatments for Type 2 Diabetes?",
		"Compare Metformin vs Insulin efficacy",
		"latest research on statin side effects",
	}
	for _, c := range cases {
		if IsUnsafe(c) {
			t.Fatalf("expected safe for %q", c)
		}
	}
}
