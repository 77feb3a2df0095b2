package people

// PersonRecord is an immutable snapshot of one row of the People table.
// PersonID is the identity key; uniqueness is assumed, not enforced, so a
// duplicated id resolves to whichever row the scan sees first.
type PersonRecord struct {
	PersonID      string
	FullName      string
	PreferredName string
	School        string
	Department    string
	Email         string
	Phone         string
	Locale        string
	ProfileDocID  string
	ProfileText   string
	LastUpdated   string
}

// Facts is the flattened projection of a record handed to the generation
// model. Every field is always present (absent source values become empty
// strings) so the serialized form stays stable downstream.
type Facts struct {
	PersonID      string `json:"person_id"`
	FullName      string `json:"full_name"`
	PreferredName string `json:"preferred_name"`
	School        string `json:"school"`
	Department    string `json:"department"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Locale        string `json:"locale"`
	ProfileText   string `json:"profile_text"`
}

// ToFacts projects a record into its generation-ready Facts form.
func ToFacts(rec PersonRecord) Facts {
	return Facts{
		PersonID:      rec.PersonID,
		FullName:      rec.FullName,
		PreferredName: rec.PreferredName,
		School:        rec.School,
		Department:    rec.Department,
		Email:         rec.Email,
		Phone:         rec.Phone,
		Locale:        rec.Locale,
		ProfileText:   rec.ProfileText,
	}
}
