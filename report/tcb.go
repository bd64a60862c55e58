package report

// IsTCBConsistent reports whether the TCB the firmware reports equals the TCB it has
// committed to. Every byte of the two versions is compared, reserved bytes included.
// A mismatch means the report must be rejected.
func IsTCBConsistent(r *Report) bool {
	return r.ReportedTCB == r.CommittedTCB
}
