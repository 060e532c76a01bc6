package recurrence

import (
	"github.com/kalendo/kalendo/pkg/caldate"
)

// Rule is the recurrence state of an event, a tagged variant over Frequency:
// either the event does not recur (the zero value), or it recurs with a
// terminal end date and, once the series is persisted, a shared group ID.
//
// GroupID is present if and only if the rule belongs to a materialized group
// of stored occurrences. A non-recurring rule never carries a group ID, which
// makes detachment an explicit, total state transition rather than an ad hoc
// field clear.
type Rule struct {
	Frequency Frequency
	EndDate   caldate.Date // meaningful only when Frequency != None
	GroupID   string       // opaque, assigned at group materialization
}

// NonRecurring returns the rule for a standalone event.
func NonRecurring() Rule {
	return Rule{Frequency: None}
}

// Recurring returns an unmaterialized recurring rule (no group ID yet).
func Recurring(f Frequency, endDate caldate.Date) Rule {
	return Rule{Frequency: f, EndDate: endDate}
}

// IsRecurring reports whether the rule describes a repeating series.
func (r Rule) IsRecurring() bool {
	return r.Frequency != None
}

// InGroup reports whether the rule is attached to a materialized group.
func (r Rule) InGroup() bool {
	return r.IsRecurring() && r.GroupID != ""
}

// WithGroup returns a copy of the rule stamped with the given group ID.
func (r Rule) WithGroup(groupID string) Rule {
	r.GroupID = groupID
	return r
}
