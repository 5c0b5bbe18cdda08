package service

// Correction notes sent back to the model for the bounded orchestrator
// retries.
const (
	noteWeekend = `The extracted date range starts or ends on a Saturday or Sunday. ` +
		`Re-read the request and restrict startDate and endDate to business days (Monday through Friday).`
	noteCollapsedWeek = `The request mentions a week but the extracted range covers a single day. ` +
		`Re-read the request and return the full Monday-to-Friday range it refers to.`
)

// User-facing messages for the pipeline's terminal states.
const (
	msgNoParticipants = "Who should attend? Please include at least one participant email address."
	msgNoMatchingDays = "None of the requested weekdays fall inside that date range. Which days should I look at?"
	msgWeekendDates   = "That range seems to start or end on a weekend. Which business days should I search?"
	msgCollapsedWeek  = "You mentioned a week, but I could only pin down a single day. Which date range should I search?"
	msgGenericFailure = "Something went wrong while I was looking for slots. Please try again."
)
