package domain

import "fmt"

// RuleTable maps contribution kinds to point values. It is built once at
// startup and never mutated; an unknown kind is a configuration error there,
// not a request-time condition.
type RuleTable struct {
	points map[ContributionKind]int
}

// DefaultRulePoints carries the fixed production weights.
var DefaultRulePoints = map[ContributionKind]int{
	KindNoteAuthored:       10,
	KindDoubtAsked:         5,
	KindDoubtAnswered:      5,
	KindBlogAuthored:       8,
	KindForumThreadStarted: 8,
}

// NewRuleTable validates the given kind→points mapping. Every supported kind
// must be present with a positive value and no extra kinds are allowed.
func NewRuleTable(points map[ContributionKind]int) (RuleTable, error) {
	if len(points) == 0 {
		points = DefaultRulePoints
	}
	table := make(map[ContributionKind]int, len(DefaultRulePoints))
	for kind, value := range points {
		if _, known := DefaultRulePoints[kind]; !known {
			return RuleTable{}, fmt.Errorf("scoring rule for %q: %w", kind, ErrUnknownKind)
		}
		if value <= 0 {
			return RuleTable{}, fmt.Errorf("scoring rule for %q: non-positive point value %d", kind, value)
		}
		table[kind] = value
	}
	for kind := range DefaultRulePoints {
		if _, ok := table[kind]; !ok {
			return RuleTable{}, fmt.Errorf("scoring rule for %q: missing", kind)
		}
	}
	return RuleTable{points: table}, nil
}

// Points returns the point value for a kind. Kinds are validated at startup,
// so a miss here means the caller passed an unnormalized kind.
func (t RuleTable) Points(kind ContributionKind) (int, error) {
	value, ok := t.points[kind]
	if !ok {
		return 0, fmt.Errorf("points lookup for %q: %w", kind, ErrUnknownKind)
	}
	return value, nil
}

// WeightedTotal computes the score for a stats breakdown. Reconciliation uses
// this over freshly counted stats, never over a previously stored score.
func (t RuleTable) WeightedTotal(stats ContributionStats) int {
	return stats.NotesCount*t.points[KindNoteAuthored] +
		stats.DoubtsAsked*t.points[KindDoubtAsked] +
		stats.DoubtsAnswered*t.points[KindDoubtAnswered] +
		stats.BlogsCount*t.points[KindBlogAuthored] +
		stats.ForumThreads*t.points[KindForumThreadStarted]
}
