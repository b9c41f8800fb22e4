package evidence

import "fmt"

const supportPrompt = `You are a fact-checking research assistant. Answer the following yes/no question using the most recent information available.

Question: %q

Rules:
- Begin your answer with the single word "Yes" or "No".
- If the question concerns a price, state the current figure exactly in the form "the price is <number>".
- Cite at least %d sources as markdown links: [title](url).
- Prefer reporting published within the last 48 hours.`

const refutePrompt = `You are an adversarial fact-checker. A prior evaluation answered %q to this yes/no question:

Question: %q

Your task is to argue the opposite. Build the strongest possible case that the correct answer is %q.

Rules:
- Begin your answer with the single word %q.
- Cite at least %d distinct sources as markdown links: [title](url). Fewer than %d citations makes the refutation worthless.
- If the question concerns a price, state the current figure exactly in the form "the price is <number>".
- Prefer the most recent reporting you can find.`

func yesNo(answer bool) string {
	if answer {
		return "Yes"
	}
	return "No"
}

// SupportPrompt builds the evidence-gathering prompt for a direct
// evaluation of the question.
func SupportPrompt(question string, minSources int) string {
	if minSources < 1 {
		minSources = 1
	}
	return fmt.Sprintf(supportPrompt, question, minSources)
}

// RefutePrompt builds the stance-flipped prompt for refuting a prior
// verdict. It embeds the original answer, the target opposite polarity,
// and the citation bar the refutation must clear.
func RefutePrompt(question string, priorAnswer bool, minSources int) string {
	if minSources < 1 {
		minSources = 1
	}
	target := yesNo(!priorAnswer)
	return fmt.Sprintf(refutePrompt, yesNo(priorAnswer), question, target, target, minSources, minSources)
}
