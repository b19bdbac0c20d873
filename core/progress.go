package core

// progress reports completion at fixed percentage steps.
type progress struct {
	total int
	step  int
	last  int
}

func newProgress(total, step int) *progress {
	return &progress{total: total, step: step}
}

// advance records done completed rows and returns the newly crossed
// percentage, if any.
func (p *progress) advance(done int) (int, bool) {
	if p.total <= 0 {
		return 0, false
	}
	pct := done * 100 / p.total
	bucket := pct / p.step * p.step
	if bucket <= p.last {
		return 0, false
	}
	p.last = bucket
	return bucket, true
}
