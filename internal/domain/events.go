package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
	CanonicalEventClassOps           = "ops"
)

const (
	EventUserRegistered          = "user.registered"
	EventContributionRecorded    = "contribution.recorded"
	EventReconciliationRequested = "scoring.reconciliation.requested"
	EventScoreUpdated            = "scoring.score.updated"
	EventReconciliationCompleted = "scoring.reconciliation.completed"
)
