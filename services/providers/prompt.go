package providers

import (
	"fmt"
	"strings"
)

// SystemPrompt is sent as the system message by backends that support one
const SystemPrompt = "You are a helpful assistant that outputs only valid JSON."

const triagePromptTemplate = `You are an expert support ticket triaging assistant.
Analyze the following support ticket and return a JSON response.

Ticket Subject: %s
Ticket Body: %s

Response Format (JSON only):
{
  "category": "billing" | "technical" | "account" | "sales" | "other",
  "priority": "low" | "normal" | "high" | "urgent",
  "flags": {
    "requires_human": boolean,
    "is_abusive": boolean,
    "missing_info": boolean,
    "is_vip_customer": boolean
  }
}

Base your categorization and priority on the content.
Urgent priority should be used for critical technical failures or billing issues affecting many users.
High priority for individual billing issues or major technical problems.
Normal for general questions or minor bugs.
Low for feature requests or feedback.

IMPORTANT: Return ONLY valid JSON. No markdown code blocks.`

// BuildPrompt renders the triage instructions for a ticket
func BuildPrompt(subject, body string) string {
	return fmt.Sprintf(triagePromptTemplate, strings.TrimSpace(subject), strings.TrimSpace(body))
}
