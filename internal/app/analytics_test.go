package app

import (
	"testing"
	"time"

	"medtrack/pkg/store"
)

func newAnalyticsApp(t *testing.T) (*App, int64) {
	t.Helper()
	memory := store.NewMemoryStore()
	application, err := New(Config{Store: memory, Sessions: memory})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	user, _, err := application.Register("carol", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return application, user.ID
}

func TestMedicationEffectiveness(t *testing.T) {
	application, userID := newAnalyticsApp(t)
	for _, name := range []string{"Aspirin", "Melatonin"} {
		if _, err := application.CreateMedication(userID, MedicationInput{Name: name, Dosage: "1", Frequency: "daily"}); err != nil {
			t.Fatalf("create medication %s: %v", name, err)
		}
	}
	entries := []MoodInput{
		{Rating: 5, RelatedMedications: []string{"Aspirin"}},
		{Rating: 1, RelatedMedications: []string{"Melatonin"}},
		{Rating: 3},
	}
	for _, entry := range entries {
		if _, err := application.CreateMood(userID, entry); err != nil {
			t.Fatalf("create mood: %v", err)
		}
	}

	stats, err := application.MedicationEffectiveness(userID)
	if err != nil {
		t.Fatalf("effectiveness: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 medications, got %d", len(stats))
	}
	byName := map[string]int{}
	for i, s := range stats {
		byName[s.MedicationName] = i
	}

	aspirin := stats[byName["Aspirin"]]
	if aspirin.AverageMoodWithMed != 5 || aspirin.TimesUsed != 1 {
		t.Fatalf("aspirin with-med stats wrong: %+v", aspirin)
	}
	if aspirin.AverageMoodWithoutMed != 2 {
		t.Fatalf("aspirin without-med average = %v, want 2", aspirin.AverageMoodWithoutMed)
	}

	melatonin := stats[byName["Melatonin"]]
	if melatonin.AverageMoodWithMed != 1 || melatonin.TimesUsed != 1 {
		t.Fatalf("melatonin with-med stats wrong: %+v", melatonin)
	}
	if melatonin.AverageMoodWithoutMed != 4 {
		t.Fatalf("melatonin without-med average = %v, want 4", melatonin.AverageMoodWithoutMed)
	}
}

func TestMedicationEffectivenessUnusedMedication(t *testing.T) {
	application, userID := newAnalyticsApp(t)
	if _, err := application.CreateMedication(userID, MedicationInput{Name: "Aspirin", Dosage: "1", Frequency: "daily"}); err != nil {
		t.Fatalf("create medication: %v", err)
	}

	stats, err := application.MedicationEffectiveness(userID)
	if err != nil {
		t.Fatalf("effectiveness: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat, got %d", len(stats))
	}
	if stats[0].AverageMoodWithMed != 0 || stats[0].AverageMoodWithoutMed != 0 || stats[0].TimesUsed != 0 {
		t.Fatalf("unused medication should report zeros, got %+v", stats[0])
	}
}

func TestMedicationEffectivenessRounding(t *testing.T) {
	application, userID := newAnalyticsApp(t)
	if _, err := application.CreateMedication(userID, MedicationInput{Name: "Aspirin", Dosage: "1", Frequency: "daily"}); err != nil {
		t.Fatalf("create medication: %v", err)
	}
	for _, rating := range []int{5, 4, 4} {
		if _, err := application.CreateMood(userID, MoodInput{Rating: rating, RelatedMedications: []string{"Aspirin"}}); err != nil {
			t.Fatalf("create mood: %v", err)
		}
	}

	stats, err := application.MedicationEffectiveness(userID)
	if err != nil {
		t.Fatalf("effectiveness: %v", err)
	}
	// (5+4+4)/3 = 4.333... rounds to 4.33.
	if got := stats[0].AverageMoodWithMed; got != 4.33 {
		t.Fatalf("average = %v, want 4.33", got)
	}
}

func TestMoodTrends(t *testing.T) {
	application, userID := newAnalyticsApp(t)
	if _, err := application.CreateMedication(userID, MedicationInput{Name: "Aspirin", Dosage: "1", Frequency: "daily"}); err != nil {
		t.Fatalf("create medication: %v", err)
	}
	if _, err := application.CreateMood(userID, MoodInput{Rating: 2}); err != nil {
		t.Fatalf("create mood: %v", err)
	}
	if _, err := application.CreateMood(userID, MoodInput{Rating: 4, RelatedMedications: []string{"Aspirin"}}); err != nil {
		t.Fatalf("create mood: %v", err)
	}

	trends, err := application.MoodTrends(userID)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(trends))
	}
	// Newest first, same as the mood list.
	if trends[0].Rating != 4 || trends[1].Rating != 2 {
		t.Fatalf("trend order wrong: %+v", trends)
	}
	if len(trends[0].Medications) != 1 || trends[0].Medications[0] != "Aspirin" {
		t.Fatalf("trend medications wrong: %+v", trends[0])
	}
	wantDate := time.Now().UTC().Format("Jan 2")
	if trends[0].Date != wantDate {
		t.Fatalf("trend date = %q, want %q", trends[0].Date, wantDate)
	}
}
