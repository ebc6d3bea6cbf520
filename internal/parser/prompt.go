package parser

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a scheduling command parser. Respond only with JSON in the exact format requested, with no commentary."

// kindsForDomain limits what a transcript in a given domain may produce.
func kindsForDomain(d Domain) []string {
	switch d {
	case DomainRules:
		return []string{"create_rule"}
	case DomainStaff:
		return []string{"create_staff"}
	case DomainSchedule:
		return []string{"move_session", "cancel_session"}
	default:
		return []string{"create_rule", "create_staff", "move_session", "cancel_session"}
	}
}

// buildPrompt renders the parse instruction for one transcript. A single
// utterance may produce several items (e.g. a compound rule command), so
// the response is always an item list.
func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("Parse this scheduling command into structured items.\n\n")
	fmt.Fprintf(&sb, "Command: %q\n", req.Transcript)
	fmt.Fprintf(&sb, "Allowed kinds: %s\n\n", strings.Join(kindsForDomain(req.Domain), ", "))

	sb.WriteString(`Respond with JSON only:
{
  "items": [
    {
      "kind": "<one of the allowed kinds>",
      "payload": { ... },
      "confidence": <0.0-1.0>,
      "warnings": ["<caveat about this item, e.g. a defaulted field>"]
    }
  ],
  "global_warnings": ["<caveat about the whole command>"]
}

Payload fields by kind:
- create_rule: category, description, priority (0-100, default 50)
- create_staff: name, role, weekly_hours
- move_session: staff, from_day, from_start, to_day, to_start
- cancel_session: staff, day, start, reason

Normalize days to lowercase weekday names and times to 24h HH:MM.
Add a warning to an item for every field you defaulted or guessed.
If the command proposes several independent changes, return one item per
change, in the order spoken. If nothing in the command is actionable,
return an empty items list.`)

	return sb.String()
}
