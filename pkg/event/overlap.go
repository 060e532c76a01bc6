package event

// FindOverlaps returns the subset of existing events that collide with the
// candidate: same calendar date and intersecting [StartTime, EndTime)
// intervals. Touching endpoints do not count as overlap. An existing event
// with the candidate's own ID is skipped so that editing an event never
// reports a collision with itself. The result preserves the order of
// existing.
func FindOverlaps(candidate Event, existing []Event) []Event {
	overlaps := make([]Event, 0)

	candidateStart, err := minutesOfDay(candidate.StartTime)
	if err != nil {
		return overlaps
	}
	candidateEnd, err := minutesOfDay(candidate.EndTime)
	if err != nil {
		return overlaps
	}

	for _, other := range existing {
		if other.ID != "" && other.ID == candidate.ID {
			continue
		}
		if other.Date != candidate.Date {
			continue
		}
		otherStart, err := minutesOfDay(other.StartTime)
		if err != nil {
			continue
		}
		otherEnd, err := minutesOfDay(other.EndTime)
		if err != nil {
			continue
		}
		if candidateStart < otherEnd && otherStart < candidateEnd {
			overlaps = append(overlaps, other)
		}
	}

	return overlaps
}
