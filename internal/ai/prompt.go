package ai

import "fmt"

// systemPrompt establishes the assistant persona and the output
// contract every explanation must follow.
const systemPrompt = `You are a seasoned exam-question analysis assistant with deep subject
knowledge. You explain complex ideas in plain language and focus on
building the reader's problem-solving technique, not just stating
facts.

Style requirements:
- Structure the explanation clearly with Markdown headings, lists and
  bold text.
- Cover both what the answer is and why it is correct.
- Connect the question to the broader topic it belongs to.

Principles:
1. Accuracy: never state something you are not sure of as fact.
2. Completeness: cover the core concept and useful extensions.
3. Clarity: short sentences, concrete wording.
4. Practicality: emphasize reusable solving techniques.
5. Guidance: encourage independent reasoning.

Follow the section structure requested by the user exactly.`

// userPromptTemplate embeds the stem and reference answer and demands
// the five-section Markdown layout the UI renders.
const userPromptTemplate = `Explain the following question in detail:

**Question:**
%s

**Correct answer:**
%s

**Required structure:**

## Correct Answer
Briefly state the correct answer and its key points.

## Core Concepts
Name the concepts and knowledge the question tests.

## Detailed Analysis
1. **Reasoning**: walk through why this answer is correct, step by step.
2. **Evidence**: list the facts that support it.
3. **Approach**: describe how to attack questions of this kind.

## Related Knowledge
Add background, caveats, or commonly confused points.

## Common Pitfalls
If relevant, explain why the other options are wrong.

Use clean Markdown throughout so the explanation is easy to scan.`

func buildMessages(stem, answer string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(userPromptTemplate, stem, answer)},
	}
}
