package calculator

// ClampHeadcount bounds an attending headcount to [0, invited].
// Out-of-range values are clamped, never rejected.
func ClampHeadcount(requested, invited int) int {
	if invited < 0 {
		invited = 0
	}
	if requested < 0 {
		return 0
	}
	if requested > invited {
		return invited
	}
	return requested
}
