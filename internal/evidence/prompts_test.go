package evidence

import (
	"strings"
	"testing"
)

func TestSupportPrompt(t *testing.T) {
	p := SupportPrompt("Is Bitcoin trading above $50,000?", 3)

	if !strings.Contains(p, "Is Bitcoin trading above $50,000?") {
		t.Error("prompt should embed the question")
	}
	if !strings.Contains(p, "at least 3 sources") {
		t.Error("prompt should carry the minimum citation count")
	}
	if !strings.Contains(p, `"the price is <number>"`) {
		t.Error("prompt should demand a numeric price statement")
	}
}

func TestRefutePrompt_FlipsPolarity(t *testing.T) {
	p := RefutePrompt("Is Bitcoin trading above $50,000?", true, 4)

	if !strings.Contains(p, `answered "Yes"`) {
		t.Error("prompt should state the prior answer")
	}
	if !strings.Contains(p, `the correct answer is "No"`) {
		t.Error("prompt should target the opposite polarity")
	}
	if !strings.Contains(p, "at least 4 distinct sources") {
		t.Error("prompt should carry the evidentiary bar")
	}

	p = RefutePrompt("q", false, 2)
	if !strings.Contains(p, `the correct answer is "Yes"`) {
		t.Error("refuting a false verdict should target yes")
	}
}
