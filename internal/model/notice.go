package model

import "time"

// SubmissionNotice carries everything needed to email a submission summary.
// It is built by the checklist service and handed to a notifier, which may
// send it directly or push it through the message broker.
type SubmissionNotice struct {
	EventID             string          `json:"event_id"`
	Kind                ChecklistKind   `json:"type"`
	StaffMember         string          `json:"staff_member"`
	EventTitle          string          `json:"event_title"`
	EventDate           string          `json:"event_date"`
	Items               []ChecklistItem `json:"items"`
	Signature           string          `json:"signature,omitempty"`
	ChecklistScreenshot string          `json:"checklist_screenshot,omitempty"`
	SubmittedAt         time.Time       `json:"submitted_at"`
}
