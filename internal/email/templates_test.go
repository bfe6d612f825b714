package email

import (
	"strings"
	"testing"
)

func TestRenderLeaseExpiryReminderTemplate(t *testing.T) {
	content, err := renderEmailTemplate("lease_expiry_reminder.html", leaseExpiryReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Échéance de bail",
			Heading: "Votre bail arrive à échéance",
		},
		OccupantName: "Marie Dupont",
		PropertyName: "12 rue des Lilas",
		EndDate:      "30/09/2026",
		ContactPhone: "+33 6 12 34 56 78",
		DaysLeft:     30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Marie Dupont",
		"12 rue des Lilas",
		"30/09/2026",
		"+33 6 12 34 56 78",
		"dans 30 jours",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("rendered email missing %q", want)
		}
	}
}

func TestRenderLeaseExpiryReminderOmitsEmptyPhone(t *testing.T) {
	content, err := renderEmailTemplate("lease_expiry_reminder.html", leaseExpiryReminderEmailData{
		baseEmailData: baseEmailData{Title: "t", Heading: "h"},
		OccupantName:  "Jean Martin",
		PropertyName:  "Studio Centre",
		EndDate:       "01/01/2027",
		DaysLeft:      15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(content, " au ") {
		t.Fatalf("contact phone clause must be omitted when no phone is set")
	}
}
