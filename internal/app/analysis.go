package app

import (
	"strings"

	"medtrack/pkg/domain"
)

var moodDescriptions = [5]string{"very bad", "bad", "okay", "good", "great"}

// GenerateMoodAnalysis builds the narrative stored on a mood entry. It is a
// pure function over the rating, the medication names the user selected,
// and the user's medication list; selected names that do not resolve to a
// medication are skipped rather than failing. Ratings outside 1..5 are
// clamped so the function is total.
func GenerateMoodAnalysis(rating int, selected []string, medications []domain.Medication) string {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	var b strings.Builder
	b.WriteString("You're feeling ")
	b.WriteString(moodDescriptions[rating-1])
	b.WriteString(" today")

	if len(selected) == 0 {
		b.WriteString(".\n\nNo medications were logged for this mood entry. Consider tracking your medications to better understand their impact on your mood.")
		return b.String()
	}

	b.WriteString(" while taking ")
	b.WriteString(strings.Join(selected, ", "))
	b.WriteString(".")

	relevant := resolveMedications(selected, medications)

	if lines := medicationEffectLines(relevant); len(lines) > 0 {
		b.WriteString("\n\nMedication Effects:\n• ")
		b.WriteString(strings.Join(lines, "\n• "))
	}

	var suggestions []string
	switch {
	case rating <= 2:
		suggestions = lowMoodSuggestions(relevant)
	case rating >= 4:
		suggestions = highMoodSuggestions(relevant)
	default:
		suggestions = neutralMoodSuggestions(relevant)
	}
	b.WriteString("\n\nRecommendations:\n• ")
	b.WriteString(strings.Join(suggestions, "\n• "))

	return b.String()
}

// resolveMedications maps each selected name to a medication by exact name
// match, preserving selection order. Best effort, not referential.
func resolveMedications(selected []string, medications []domain.Medication) []domain.Medication {
	resolved := make([]domain.Medication, 0, len(selected))
	for _, name := range selected {
		for _, med := range medications {
			if med.Name == name {
				resolved = append(resolved, med)
				break
			}
		}
	}
	return resolved
}

func medicationEffectLines(meds []domain.Medication) []string {
	lines := make([]string, 0, len(meds))
	for _, med := range meds {
		var b strings.Builder
		b.WriteString(med.Name)
		b.WriteString(": ")
		if med.Purpose != "" {
			b.WriteString("Used for ")
			b.WriteString(med.Purpose)
			b.WriteString(". ")
		}
		if med.Effects != "" {
			b.WriteString("Expected effects: ")
			b.WriteString(med.Effects)
			b.WriteString(". ")
		}
		if med.SideEffects != "" {
			b.WriteString("Possible side effects: ")
			b.WriteString(med.SideEffects)
			b.WriteString(".")
		}
		lines = append(lines, b.String())
	}
	return lines
}

// Low moods focus on medication effectiveness and side effect management.
func lowMoodSuggestions(meds []domain.Medication) []string {
	suggestions := []string{"Consider discussing with your healthcare provider:"}
	for _, med := range meds {
		if med.Purpose != "" {
			suggestions = append(suggestions, "- Whether "+med.Name+" is effectively managing your "+med.Purpose)
		}
		if med.SideEffects != "" {
			suggestions = append(suggestions, "- If you're experiencing any side effects from "+med.Name+" ("+med.SideEffects+")")
		}
	}
	return append(suggestions,
		"Track timing of medication intake and mood changes",
		"Keep a detailed record of any new symptoms or side effects",
		"Ensure you're taking medications at the prescribed times and doses",
	)
}

// High moods focus on maintaining the current regimen.
func highMoodSuggestions(meds []domain.Medication) []string {
	suggestions := []string{
		"Current medication routine appears to be working well",
		"Continue following your prescribed medication schedule",
	}
	for _, med := range meds {
		if med.Purpose != "" {
			suggestions = append(suggestions, "- "+med.Name+" seems to be effectively managing your "+med.Purpose)
		}
	}
	return append(suggestions,
		"Maintain consistent timing of medication intake",
		"Keep tracking your mood to identify what's working well",
	)
}

// Neutral moods focus on optimization and monitoring.
func neutralMoodSuggestions(meds []domain.Medication) []string {
	suggestions := []string{"Optimization suggestions:"}
	for _, med := range meds {
		if med.Purpose != "" {
			suggestions = append(suggestions, "- Monitor how well "+med.Name+" is managing your "+med.Purpose)
		}
		if med.Effects != "" {
			suggestions = append(suggestions, "- Watch for expected effects: "+med.Effects)
		}
	}
	return append(suggestions,
		"Keep track of medication timing and any mood changes",
		"Consider discussing optimization options with your healthcare provider",
	)
}
