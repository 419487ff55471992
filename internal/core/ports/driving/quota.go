package driving

// QuotaService enforces the per-repository call quota.
type QuotaService interface {
	// Admit records a call for key, or returns a *domain.RateLimitError.
	Admit(key string) error

	// Remaining returns how many calls key may still make.
	Remaining(key string) int
}
