package enums

// RefreshStatus is the outcome recorded for an analytics refresh attempt.
type RefreshStatus string

const (
	RefreshStatusCompleted RefreshStatus = "completed"
	RefreshStatusFailed    RefreshStatus = "failed"
)

func (r RefreshStatus) String() string {
	return string(r)
}

func (r RefreshStatus) IsValid() bool {
	return r == RefreshStatusCompleted || r == RefreshStatusFailed
}
