package monitor

import (
	"fmt"

	"github.com/shelfwatch/shelfwatch/internal/model"
)

// deriveHealthList computes a health view for each selected retailer that
// has stats. Retailers without stats are skipped rather than reported at
// zero health.
func deriveHealthList(selected []string, stats map[string]model.CategoryStats) []model.CategoryHealth {
	var out []model.CategoryHealth
	for _, code := range selected {
		st, ok := stats[code]
		if !ok {
			continue
		}
		out = append(out, deriveHealth(code, st))
	}
	return out
}

// deriveHealth turns raw counts into a health score and issue list. The
// score is the active share of monitored categories; an inactive rate above
// 20% raises a high_inactive_rate issue, escalated to high severity above
// 50%.
func deriveHealth(code string, st model.CategoryStats) model.CategoryHealth {
	health := model.CategoryHealth{
		RetailerCode:  code,
		TotalCount:    st.Total,
		ActiveCount:   st.Active,
		InactiveCount: st.Inactive,
		TotalProducts: st.TotalProducts,
		Trend:         model.TrendStable,
	}
	if st.Total == 0 {
		return health
	}

	activeRate := float64(st.Active) / float64(st.Total)
	health.HealthScore = activeRate * 100

	if activeRate < issueThreshold {
		severity := model.SeverityMedium
		if activeRate < highSeverityThreshold {
			severity = model.SeverityHigh
			health.Trend = model.TrendDeclining
		}
		health.Issues = append(health.Issues, model.Issue{
			Type:          model.IssueTypeHighInactiveRate,
			Severity:      severity,
			Message:       fmt.Sprintf("%d of %d monitored categories are inactive", st.Inactive, st.Total),
			AffectedCount: st.Inactive,
		})
	}
	return health
}

// summarize folds the per-retailer health list into the dashboard roll-up.
func summarize(health []model.CategoryHealth) Summary {
	var s Summary
	var scoreSum float64
	for _, h := range health {
		s.TotalCategories += h.TotalCount
		s.TotalProducts += h.TotalProducts
		scoreSum += h.HealthScore
		if len(h.Issues) > 0 {
			s.CategoriesWithIssues++
		}
		for _, issue := range h.Issues {
			if issue.Severity == model.SeverityHigh {
				s.HighSeverityIssueCount++
			}
		}
	}
	if len(health) > 0 {
		s.AverageHealthScore = scoreSum / float64(len(health))
	}
	return s
}

// filterChanges keeps changes inside the window and, when a selection is
// active, scoped to the selected retailers.
func filterChanges(changes []model.Change, window model.TimeWindow, selected []string) []model.Change {
	if changes == nil {
		return nil
	}
	want := make(map[string]bool, len(selected))
	for _, code := range selected {
		want[code] = true
	}

	out := make([]model.Change, 0, len(changes))
	for _, c := range changes {
		if !window.Contains(c.OccurredAt) {
			continue
		}
		if len(want) > 0 && !want[c.RetailerCode] {
			continue
		}
		out = append(out, c)
	}
	return out
}
