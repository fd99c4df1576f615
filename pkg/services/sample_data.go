package services

import "github.com/ekaya-inc/kpi-translator/pkg/models"

// SampleRows returns the built-in dataset used when no external glossary is supplied:
// 15 metrics across Marketing, Sales, Product, Customer Success, Data and Finance.
func SampleRows() []models.ImportRow {
	return []models.ImportRow{
		{Team: "Marketing", MetricName: "Engagement Rate", Definition: "Clicks + opens ÷ total emails sent over past 30 days."},
		{Team: "Sales", MetricName: "Qualified Lead", Definition: "Any lead with a score >80 OR passed SDR call."},
		{Team: "Product", MetricName: "Activation", Definition: "User finishes onboarding OR uses 2+ features in week 1."},
		{Team: "Customer Success", MetricName: "Churn Risk", Definition: "Accounts with >2 support tickets OR NPS < 7."},
		{Team: "Data", MetricName: "Retention", Definition: "Returning users after 30 days, excluding email-only logins."},
		{Team: "Marketing", MetricName: "Conversion", Definition: "Leads from paid campaigns that sign up, trial, or click a CTA."},
		{Team: "Marketing", MetricName: "Bounce Rate", Definition: "Emails not opened OR flagged by filters."},
		{Team: "Sales", MetricName: "Close Rate", Definition: "Closed deals ÷ total leads from CRM (includes disqualified ones)."},
		{Team: "Sales", MetricName: "Lead Quality", Definition: "Demographic match, website activity score, and AE judgment."},
		{Team: "Product", MetricName: "Feature Adoption", Definition: "Usage of any newly shipped feature within 14 days."},
		{Team: "Product", MetricName: "Time to Value", Definition: "Average days between signup and first retained session."},
		{Team: "Customer Success", MetricName: "NPS", Definition: "Average score from latest customer survey. Filtered by region."},
		{Team: "Customer Success", MetricName: "Engagement Score", Definition: "Blend of logins, support usage, webinar attendance."},
		{Team: "Finance", MetricName: "Customer Lifetime Value", Definition: "Revenue per user times estimated tenure (model varies by segment)."},
		{Team: "Finance", MetricName: "CAC", Definition: "Sales + marketing cost ÷ new *qualified* customers (definition varies)."},
	}
}
