package models

import "time"

// Priority classifies how quickly an email needs attention
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// Sentiment is the tone the backend detected in the email body
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Status tracks where an email sits in the triage flow
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// EmailRecord is one triaged email as the backend returns it, including the
// AI-derived metadata and the drafted response. The id is stable across
// refreshes; everything else is replaced wholesale on each refresh cycle.
type EmailRecord struct {
	ID           int       `json:"id"`
	Sender       string    `json:"sender"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	DateReceived string    `json:"date_received"`
	Priority     Priority  `json:"priority"`
	Sentiment    Sentiment `json:"sentiment"`
	Status       Status    `json:"status"`
	ContactInfo  string    `json:"contact_info"`
	Requirements string    `json:"requirements"`
	Keywords     string    `json:"keywords"`
	AIResponse   string    `json:"ai_response"`
}

// ReceivedAt parses the backend's ISO timestamp; zero time when unparseable.
func (e *EmailRecord) ReceivedAt() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, e.DateReceived); err == nil {
			return t
		}
	}
	return time.Time{}
}

// EmailDraft is the operator-submitted form for a new email to process.
type EmailDraft struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailFilter narrows the list view; empty fields mean no constraint.
type EmailFilter struct {
	Priority  Priority
	Sentiment Sentiment
}

// IsZero reports whether the filter constrains anything.
func (f EmailFilter) IsZero() bool {
	return f.Priority == "" && f.Sentiment == ""
}

// AnalyticsSnapshot holds the aggregate counts the backend computes over the
// current email set. It is always paired with the email list fetched in the
// same refresh cycle.
type AnalyticsSnapshot struct {
	TotalEmails        int            `json:"total_emails"`
	RecentEmails       int            `json:"recent_emails"`
	UrgentEmails       int            `json:"urgent_emails"`
	ResolvedEmails     int            `json:"resolved_emails"`
	PendingEmails      int            `json:"pending_emails"`
	PriorityBreakdown  map[string]int `json:"priority_breakdown"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	StatusBreakdown    map[string]int `json:"status_breakdown"`
}
