package session

// Outcome is everything one completed session contributes to the final
// verdict: the discrete status lines for the report and the candidate
// reason per severity slot. Slots left empty mean the session raised
// nothing of that severity.
type Outcome struct {
	User          string
	RootFolder    string
	ClientVersion string

	StatusLines   []string
	WarningReason string
	ErrorReason   string
	UnknownReason string
}
