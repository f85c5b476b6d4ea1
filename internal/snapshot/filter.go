package snapshot

// SnapshotFilter is the user-supplied predicate for selecting a session.
// Each field is an optional regex string; unset fields impose no constraint.
type SnapshotFilter struct {
	DeviceName string `json:"device_name,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	IsPaused   string `json:"is_paused,omitempty"`
}

// FieldPatterns translates the filter into the matcher's dot-path mapping.
// Unset fields are omitted entirely rather than mapped to an always-true
// pattern.
func (f SnapshotFilter) FieldPatterns() map[string]string {
	fields := make(map[string]string)
	if f.DeviceName != "" {
		fields["DeviceName"] = f.DeviceName
	}
	if f.UserName != "" {
		fields["UserName"] = f.UserName
	}
	if f.IsPaused != "" {
		fields["PlayState.IsPaused"] = f.IsPaused
	}
	return fields
}
