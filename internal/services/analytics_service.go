package services

import "github.com/amellido/triagetui/internal/models"

// ChartPoint is one bar of the summary chart.
type ChartPoint struct {
	Label string
	Value int
}

// ProjectChartSeries transforms an analytics snapshot into the fixed-order
// chart series [urgent, non-urgent, positive, negative, neutral]. Pure: no
// side effects, same input always yields the same output. Every value is
// clamped to zero, so the series stays non-negative even when the backend
// reports urgent_emails > total_emails.
func ProjectChartSeries(a models.AnalyticsSnapshot) []ChartPoint {
	sentiment := func(key string) int {
		if a.SentimentBreakdown == nil {
			return 0
		}
		return clampNonNegative(a.SentimentBreakdown[key])
	}
	return []ChartPoint{
		{Label: "Urgent", Value: clampNonNegative(a.UrgentEmails)},
		{Label: "Non-Urgent", Value: clampNonNegative(a.TotalEmails - a.UrgentEmails)},
		{Label: "Positive", Value: sentiment(string(models.SentimentPositive))},
		{Label: "Negative", Value: sentiment(string(models.SentimentNegative))},
		{Label: "Neutral", Value: sentiment(string(models.SentimentNeutral))},
	}
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
