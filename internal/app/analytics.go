package app

import (
	"math"
	"slices"

	"medtrack/pkg/domain"
)

// MoodTrends maps each mood entry to a chart point, newest first as
// returned by ListMoods. Callers needing ascending order reverse it.
func (a *App) MoodTrends(userID int64) ([]domain.MoodTrend, error) {
	moods, err := a.store.ListMoodsByUser(userID)
	if err != nil {
		return nil, err
	}
	trends := make([]domain.MoodTrend, 0, len(moods))
	for _, mood := range moods {
		trends = append(trends, domain.MoodTrend{
			Date:        mood.Timestamp.Format("Jan 2"),
			Rating:      mood.Rating,
			Medications: mood.RelatedMedications,
		})
	}
	return trends, nil
}

// MedicationEffectiveness partitions the user's moods per medication into
// those referencing its current name and those not, and reports the mean
// rating of each partition (0 when empty) plus the usage count. Derived on
// every read; nothing is stored.
func (a *App) MedicationEffectiveness(userID int64) ([]domain.MedicationEffectiveness, error) {
	medications, err := a.store.ListMedicationsByUser(userID)
	if err != nil {
		return nil, err
	}
	moods, err := a.store.ListMoodsByUser(userID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.MedicationEffectiveness, 0, len(medications))
	for _, med := range medications {
		var withSum, withoutSum, withCount, withoutCount int
		for _, mood := range moods {
			if slices.Contains(mood.RelatedMedications, med.Name) {
				withSum += mood.Rating
				withCount++
			} else {
				withoutSum += mood.Rating
				withoutCount++
			}
		}
		res = append(res, domain.MedicationEffectiveness{
			MedicationName:        med.Name,
			AverageMoodWithMed:    meanRating(withSum, withCount),
			AverageMoodWithoutMed: meanRating(withoutSum, withoutCount),
			TimesUsed:             withCount,
		})
	}
	return res, nil
}

// meanRating returns the average rounded to two decimals, 0 for an empty
// partition.
func meanRating(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*100) / 100
}
