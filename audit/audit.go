package audit

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nexakey/nexakey/vault"
)

// staleAfter is how long a credential can keep the same password before
// the audit flags it.
const staleAfter = 90 * 24 * time.Hour

// IssueType classifies a vault-wide finding.
type IssueType string

const (
	IssueWeak        IssueType = "weak"
	IssueReused      IssueType = "reused"
	IssueCompromised IssueType = "compromised"
	IssueStale       IssueType = "stale"
)

// Severity ranks a finding. Order matters: higher constants sort first
// in the report.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Issue is one category-level finding in a vault audit.
type Issue struct {
	Type           IssueType `json:"type"`
	Severity       Severity  `json:"severity"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	AffectedItems  []string  `json:"affected_items,omitempty"`
	Recommendation string    `json:"recommendation"`
}

// Report aggregates the security posture of a whole vault.
type Report struct {
	Score           int      `json:"score"`
	Label           string   `json:"label"`
	TotalPasswords  int      `json:"total_passwords"`
	Weak            int      `json:"weak"`
	Reused          int      `json:"reused"`
	Compromised     int      `json:"compromised"`
	Stale           int      `json:"stale"`
	AverageStrength float64  `json:"average_strength"`
	Issues          []Issue  `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations"`
}

type scoredItem struct {
	item     vault.DecryptedItem
	cred     *vault.Credential
	analysis Analysis
}

// AuditVault analyzes every credential item that carries a password and
// reports weak, reused, compromised, and stale passwords. Reuse matches
// byte-identical passwords only. now anchors the staleness check.
func AuditVault(items []vault.DecryptedItem, now time.Time) Report {
	var scored []scoredItem
	for _, it := range items {
		cred, ok := it.Data.(*vault.Credential)
		if !ok || cred.Password == "" {
			continue
		}
		scored = append(scored, scoredItem{item: it, cred: cred, analysis: Analyze(cred.Password)})
	}

	report := Report{TotalPasswords: len(scored)}

	groups := make(map[string][]string)
	order := make([]string, 0, len(scored))
	for _, s := range scored {
		if _, seen := groups[s.cred.Password]; !seen {
			order = append(order, s.cred.Password)
		}
		groups[s.cred.Password] = append(groups[s.cred.Password], itemName(s.cred))
	}

	var reusedGroups int
	var reusedNames []string
	for _, pwd := range order {
		if names := groups[pwd]; len(names) > 1 {
			reusedGroups++
			reusedNames = append(reusedNames, names...)
		}
	}
	report.Reused = len(reusedNames)

	var strengthSum int
	var weakNames, compromisedNames []string
	for _, s := range scored {
		strengthSum += s.analysis.Score
		if s.analysis.Score < 4 || s.analysis.Compromised {
			report.Weak++
		}
		if s.analysis.Score < 4 {
			weakNames = append(weakNames, itemName(s.cred))
		}
		if s.analysis.Compromised {
			report.Compromised++
			compromisedNames = append(compromisedNames, itemName(s.cred))
		}
		if !s.item.CreatedAt.IsZero() && now.Sub(s.item.CreatedAt) > staleAfter {
			report.Stale++
		}
	}
	if len(scored) > 0 {
		avg := float64(strengthSum) / float64(len(scored))
		report.AverageStrength = math.Round(avg*100) / 100
	}

	if report.Weak > 0 {
		severity := SeverityMedium
		if report.Weak > 5 {
			severity = SeverityCritical
		} else if report.Weak > 2 {
			severity = SeverityHigh
		}
		report.Issues = append(report.Issues, Issue{
			Type:           IssueWeak,
			Severity:       severity,
			Title:          "Weak passwords detected",
			Description:    fmt.Sprintf("%d weak passwords found in your vault", report.Weak),
			AffectedItems:  weakNames,
			Recommendation: "Replace these passwords with generated ones",
		})
	}
	if reusedGroups > 0 {
		severity := SeverityMedium
		if reusedGroups > 3 {
			severity = SeverityHigh
		}
		report.Issues = append(report.Issues, Issue{
			Type:           IssueReused,
			Severity:       severity,
			Title:          "Reused passwords",
			Description:    fmt.Sprintf("%d accounts share duplicated passwords", len(reusedNames)),
			AffectedItems:  reusedNames,
			Recommendation: "Use a unique password for every account",
		})
	}
	if report.Compromised > 0 {
		report.Issues = append(report.Issues, Issue{
			Type:           IssueCompromised,
			Severity:       SeverityCritical,
			Title:          "Compromised passwords",
			Description:    fmt.Sprintf("%d known-breached passwords detected", report.Compromised),
			AffectedItems:  compromisedNames,
			Recommendation: "Change these passwords immediately",
		})
	}
	if report.Stale > 0 {
		report.Issues = append(report.Issues, Issue{
			Type:           IssueStale,
			Severity:       SeverityLow,
			Title:          "Old passwords",
			Description:    fmt.Sprintf("%d passwords unchanged for more than 90 days", report.Stale),
			Recommendation: "Consider rotating old passwords periodically",
		})
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Severity > report.Issues[j].Severity
	})

	if len(scored) > 0 && report.AverageStrength < 4 {
		report.Recommendations = append(report.Recommendations, "Improve the overall strength of your passwords")
	}
	if len(scored) < 10 {
		report.Recommendations = append(report.Recommendations, "Store a credential for every account you use")
	}
	report.Recommendations = append(report.Recommendations,
		"Enable two-factor authentication wherever it is offered",
		"Use the password generator for new credentials",
	)

	report.Score = overallScore(report.Issues)
	report.Label = scoreLabel(report.Score)
	return report
}

// overallScore deducts per issue category present, not per item.
func overallScore(issues []Issue) int {
	score := 100
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			score -= 20
		case SeverityHigh:
			score -= 10
		case SeverityMedium:
			score -= 5
		}
	}
	return max(0, score)
}

func scoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	case score >= 20:
		return "Poor"
	default:
		return "Critical"
	}
}

func itemName(cred *vault.Credential) string {
	if cred.Name == "" {
		return "Unnamed item"
	}
	return cred.Name
}
