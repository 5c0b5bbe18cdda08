package extract

import (
	"fmt"
	"time"

	"github.com/slotwise/slotwise/internal/adapters/llm"
)

// systemPrompt carries the scheduling rules, the current time, and the
// output schema the model must follow.
const systemPromptTemplate = `You are a scheduling parameter extractor.
Current time: %s (%s).
Business days are Monday through Friday; never propose Saturday or Sunday.
Interpret relative expressions ("tomorrow", "next week") against the current time.
Respond with a single JSON object, nothing else, using this schema:
{
  "startDate": "YYYY-MM-DD",
  "endDate": "YYYY-MM-DD",
  "timeOfDay": "morning" | "afternoon" | "all",
  "durationMinutes": number or null,
  "participantEmails": ["user@example.com"],
  "daysSelector": {"mode": "fullRange" | "firstN" | "specificDays", "n": number or null, "daysOfWeek": ["Mon"] or null},
  "needClarification": false or {"question": "text"}
}
If the request is too ambiguous to extract dates, set needClarification to an object with a question for the user.`

// correctionNote is appended after a malformed reply; the retry demanding
// strict output happens at most once.
const correctionNote = `Your previous reply was not valid JSON. Respond again with exactly one JSON object matching the schema, with double-quoted keys, no code fences, no commentary.`

func buildMessages(text string, now time.Time, notes []string) []llm.Message {
	msgs := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, now.Format(time.RFC3339), now.Weekday())},
		{Role: "user", Content: text},
	}
	for _, note := range notes {
		msgs = append(msgs, llm.Message{Role: "system", Content: note})
	}
	return msgs
}
