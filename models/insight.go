package models

import "fmt"

// Dashboard payload shape the model is asked to produce.
const (
	DashboardCardCount    = 4
	DashboardInsightCount = 3
)

var validSeverityTags = map[string]bool{
	"danger":  true,
	"success": true,
	"warning": true,
	"info":    true,
}

// DashboardCard is one of the four summary cards on the dashboard.
type DashboardCard struct {
	ID       string `json:"id"`
	Tag      string `json:"tag"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Badge    string `json:"badge"`
}

// SmartInsight is one generated observation about the user's spending.
type SmartInsight struct {
	ID          string `json:"id"`
	Tag         string `json:"tag"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Prediction is an optional forward-looking estimate.
type Prediction struct {
	Amount     float64 `json:"amount"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

// DashboardInsight is the structured dashboard response generated by the
// model. It is accepted whole or discarded whole; a payload that fails
// Validate is never partially used.
type DashboardInsight struct {
	Greeting   string          `json:"greeting"`
	Cards      []DashboardCard `json:"cards"`
	Insights   []SmartInsight  `json:"insights"`
	Prediction *Prediction     `json:"prediction,omitempty"`
}

// Validate checks the generated payload against the dashboard contract:
// exactly four cards, exactly three insights, known severity tags.
func (d *DashboardInsight) Validate() error {
	if len(d.Cards) != DashboardCardCount {
		return fmt.Errorf("expected %d cards, got %d", DashboardCardCount, len(d.Cards))
	}
	if len(d.Insights) != DashboardInsightCount {
		return fmt.Errorf("expected %d insights, got %d", DashboardInsightCount, len(d.Insights))
	}
	for _, card := range d.Cards {
		if !validSeverityTags[card.Tag] {
			return fmt.Errorf("card %q has unknown tag %q", card.ID, card.Tag)
		}
	}
	for _, insight := range d.Insights {
		if !validSeverityTags[insight.Tag] {
			return fmt.Errorf("insight %q has unknown tag %q", insight.ID, insight.Tag)
		}
	}
	return nil
}
