package worker

import "time"

// RetryPolicy controls how failed spreadsheet tasks are rescheduled.
// The delay grows by BackoffFactor per attempt, starting at
// InitialDelay and capped at MaxDelay; once MaxRetries attempts are
// spent the task is marked failed and dead-lettered.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy is the policy the sheets worker runs with unless
// overridden: five attempts, 2s doubling up to a minute.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  2 * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
	}
}

// NextDelay returns how long to wait before the given attempt
// (1-based). Zero or negative policy fields fall back to one second
// and doubling.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	initial := p.InitialDelay
	if initial <= 0 {
		initial = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	delay := float64(initial)
	for i := 1; i < attempt; i++ {
		delay *= factor
		if p.MaxDelay > 0 && delay >= float64(p.MaxDelay) {
			return p.MaxDelay
		}
	}

	d := time.Duration(delay)
	if d <= 0 {
		d = time.Second
	}
	return d
}
