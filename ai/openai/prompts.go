package openai

import (
	"fmt"
	"strings"
)

const discoveryResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "competitors": {
      "type": "array",
      "items": {
        "type": "string",
        "minLength": 2
      }
    }
  },
  "required": ["competitors"],
  "additionalProperties": false
}`

const discoveryPromptTemplate = `You are a business intelligence analyst. The user message contains a company name.
Identify up to %d direct competitors of that company and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Only provide REAL companies that actually exist. Never invent placeholders like "Company Name 1" or "Competitor A".
- Focus on direct competitors in the same industry and market segment.
- Include both established players and emerging competitors.
- Do not include the company itself.
- Use the common trading name of each company, not the full legal name.
- If you cannot identify any real competitors, return "competitors": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Apollo"
Output:
{
  "competitors": ["Outreach", "SalesLoft", "ZoomInfo", "HubSpot", "LinkedIn Sales Navigator"]
}`

// buildDiscoveryPrompt creates the discovery system prompt with the
// competitor limit embedded.
func buildDiscoveryPrompt(max int) string {
	return fmt.Sprintf(discoveryPromptTemplate, max, discoveryResponseSchema)
}

const answerSystemPrompt = `You are a research assistant answering questions about companies and their contacts.
Answer using ONLY the information provided in the context documents. Do not use outside knowledge.
If the context does not contain the information needed, say so plainly instead of guessing.
Be concise and factual.`

// buildAnswerPrompt assembles the user prompt from numbered context
// documents followed by the question.
func buildAnswerPrompt(question string, contextDocs []string) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, doc := range contextDocs {
		fmt.Fprintf(&b, "\nDocument %d: %s\n", i+1, doc)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
