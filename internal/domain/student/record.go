package student

// RecordRef points at a stored Account and, when linked, its Profile.
type RecordRef struct {
	AccountID   string
	ProfileID   string
	Email       string
	StudentCode string
	Name        string
	Phone       string
}

func (r RecordRef) HasProfile() bool {
	return r.ProfileID != ""
}

// NewRecord holds the fields for a new Account + Profile pair.
type NewRecord struct {
	Email        string
	PasswordHash string
	Name         string
	StudentCode  string
	Phone        string
}

// ProfileUpdate holds the mutable profile fields. A nil Phone leaves the
// stored phone untouched.
type ProfileUpdate struct {
	Name  string
	Phone *string
}
