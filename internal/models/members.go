package models

// Gender of a trust member.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is empty or one of the known values.
func (g Gender) Valid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Member is a person registered with the trust.
type Member struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	AadharNumber string `json:"aadharNumber,omitempty"`
	Photo        string `json:"photo"`
	Occupation   string `json:"occupation,omitempty"`
	MobileNo     string `json:"mobileNo"`
	Gender       Gender `json:"gender,omitempty"`
	JoinDate     string `json:"joinDate,omitempty"` // YYYY-MM-DD
}

// Fields maps the member to its stored document, omitting unset values.
func (m *Member) Fields() map[string]any {
	fields := make(map[string]any, 8)
	putString(fields, "name", m.Name)
	putString(fields, "address", m.Address)
	putString(fields, "aadharNumber", m.AadharNumber)
	putString(fields, "photo", m.Photo)
	putString(fields, "occupation", m.Occupation)
	putString(fields, "mobileNo", m.MobileNo)
	putString(fields, "gender", string(m.Gender))
	putString(fields, "joinDate", m.JoinDate)
	return fields
}

// MemberFromDocument rebuilds a member from a stored document.
func MemberFromDocument(id string, fields map[string]any) *Member {
	return &Member{
		ID:           id,
		Name:         stringField(fields, "name"),
		Address:      stringField(fields, "address"),
		AadharNumber: stringField(fields, "aadharNumber"),
		Photo:        stringField(fields, "photo"),
		Occupation:   stringField(fields, "occupation"),
		MobileNo:     stringField(fields, "mobileNo"),
		Gender:       Gender(stringField(fields, "gender")),
		JoinDate:     stringField(fields, "joinDate"),
	}
}

// MemberPatch is a partial member update. Nil fields are left untouched.
// ClearPhoto resets the photo to the placeholder when no new file is given.
type MemberPatch struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	AadharNumber *string `json:"aadharNumber,omitempty"`
	Occupation   *string `json:"occupation,omitempty"`
	MobileNo     *string `json:"mobileNo,omitempty"`
	Gender       *Gender `json:"gender,omitempty"`
	JoinDate     *string `json:"joinDate,omitempty"`
	ClearPhoto   bool    `json:"clearPhoto,omitempty"`
}

// Fields returns only the fields the patch sets.
func (p *MemberPatch) Fields() map[string]any {
	fields := make(map[string]any)
	putStringPtr(fields, "name", p.Name)
	putStringPtr(fields, "address", p.Address)
	putStringPtr(fields, "aadharNumber", p.AadharNumber)
	putStringPtr(fields, "occupation", p.Occupation)
	putStringPtr(fields, "mobileNo", p.MobileNo)
	if p.Gender != nil {
		fields["gender"] = string(*p.Gender)
	}
	putStringPtr(fields, "joinDate", p.JoinDate)
	return fields
}
