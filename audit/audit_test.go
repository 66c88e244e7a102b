package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexakey/nexakey/vault"
)

func credItem(name, password string, createdAt time.Time) vault.DecryptedItem {
	return vault.DecryptedItem{
		ID:        name,
		Type:      vault.ItemTypeCredential,
		Data:      &vault.Credential{Name: name, Username: "user", Password: password},
		CreatedAt: createdAt,
	}
}

func TestAuditVault_Empty(t *testing.T) {
	report := AuditVault(nil, time.Now())

	assert.Equal(t, 100, report.Score)
	assert.Equal(t, "Excellent", report.Label)
	assert.Zero(t, report.TotalPasswords)
	assert.Zero(t, report.AverageStrength)
	assert.Empty(t, report.Issues)
	assert.NotEmpty(t, report.Recommendations)
}

func TestAuditVault_IgnoresNonCredentialItems(t *testing.T) {
	now := time.Now()
	items := []vault.DecryptedItem{
		{Type: vault.ItemTypeSecureNote, Data: &vault.SecureNote{Name: "note", Notes: "password"}, CreatedAt: now},
		{Type: vault.ItemTypePaymentCard, Data: &vault.PaymentCard{Name: "card", CardNumber: "4111111111111111"}, CreatedAt: now},
		{Type: vault.ItemTypeCredential, Data: &vault.Credential{Name: "no secret"}, CreatedAt: now},
		credItem("real", "Tr0ub4dor&3xyz!", now),
	}

	report := AuditVault(items, now)
	assert.Equal(t, 1, report.TotalPasswords)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 100, report.Score)
}

func TestAuditVault_ReuseIsExactMatch(t *testing.T) {
	now := time.Now()
	items := []vault.DecryptedItem{
		credItem("GitHub", "Sunshine1!", now),
		credItem("GitLab", "Sunshine1!", now),
		credItem("Bank", "sunshine1!", now),
	}

	report := AuditVault(items, now)

	var reused []Issue
	for _, issue := range report.Issues {
		if issue.Type == IssueReused {
			reused = append(reused, issue)
		}
	}
	require.Len(t, reused, 1)
	assert.Equal(t, SeverityMedium, reused[0].Severity)
	assert.ElementsMatch(t, []string{"GitHub", "GitLab"}, reused[0].AffectedItems,
		"case-different secrets are distinct passwords")
	assert.Equal(t, 2, report.Reused)
}

func TestAuditVault_CriticalPlusMediumScores75(t *testing.T) {
	now := time.Now()
	// One compromised password yields a critical compromised category and,
	// because a compromised password is also weak, a medium weak category.
	items := []vault.DecryptedItem{
		credItem("Router", "123456", now),
		credItem("GitHub", "Tr0ub4dor&3xyz!", now),
	}

	report := AuditVault(items, now)

	require.Len(t, report.Issues, 2)
	assert.Equal(t, IssueCompromised, report.Issues[0].Type)
	assert.Equal(t, SeverityCritical, report.Issues[0].Severity)
	assert.Equal(t, IssueWeak, report.Issues[1].Type)
	assert.Equal(t, SeverityMedium, report.Issues[1].Severity)

	assert.Equal(t, 75, report.Score)
	assert.Equal(t, "Good", report.Label)
	assert.Equal(t, 1, report.Weak)
	assert.Equal(t, 1, report.Compromised)
}

func TestAuditVault_WeakSeverityScalesWithCount(t *testing.T) {
	now := time.Now()
	weak := func(n int) Report {
		var items []vault.DecryptedItem
		for i := 0; i < n; i++ {
			items = append(items, credItem(string(rune('a'+i)), "short", now))
		}
		return AuditVault(items, now)
	}

	find := func(r Report) Issue {
		for _, issue := range r.Issues {
			if issue.Type == IssueWeak {
				return issue
			}
		}
		t.Fatal("no weak issue")
		return Issue{}
	}

	assert.Equal(t, SeverityMedium, find(weak(2)).Severity)
	assert.Equal(t, SeverityHigh, find(weak(3)).Severity)
	assert.Equal(t, SeverityCritical, find(weak(6)).Severity)
}

func TestAuditVault_Stale(t *testing.T) {
	now := time.Now()
	items := []vault.DecryptedItem{
		credItem("old", "Tr0ub4dor&3xyz!", now.Add(-100*24*time.Hour)),
		credItem("new", "Correct-Horse9&", now),
	}

	report := AuditVault(items, now)

	assert.Equal(t, 1, report.Stale)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueStale, report.Issues[0].Type)
	assert.Equal(t, SeverityLow, report.Issues[0].Severity)
	assert.Equal(t, 100, report.Score, "low severity categories do not deduct")
}

func TestAuditVault_IssuesSortedBySeverity(t *testing.T) {
	now := time.Now()
	items := []vault.DecryptedItem{
		credItem("a", "123456", now.Add(-100*24*time.Hour)),
		credItem("b", "Sunshine1!", now),
		credItem("c", "Sunshine1!", now),
	}

	report := AuditVault(items, now)

	require.GreaterOrEqual(t, len(report.Issues), 3)
	for i := 1; i < len(report.Issues); i++ {
		assert.GreaterOrEqual(t, report.Issues[i-1].Severity, report.Issues[i].Severity)
	}
	assert.Equal(t, IssueCompromised, report.Issues[0].Type)
}

func TestAuditVault_AverageStrengthAndRecommendations(t *testing.T) {
	now := time.Now()
	items := []vault.DecryptedItem{
		credItem("strong", "Tr0ub4dor&3xyz!", now), // scores 6
		credItem("weak", "123456", now),            // scores 0
	}

	report := AuditVault(items, now)

	assert.Equal(t, 3.0, report.AverageStrength)
	assert.Contains(t, report.Recommendations, "Improve the overall strength of your passwords")
	assert.Contains(t, report.Recommendations, "Store a credential for every account you use")
	assert.Contains(t, report.Recommendations, "Enable two-factor authentication wherever it is offered")
}
