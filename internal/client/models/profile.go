package models

// Profile is the user's remote profile document. JoinDate is stored in the
// locale format the original registration wrote, DD/MM/YYYY.
type Profile struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	FullName  string
	JoinDate  string
	CreatedAt string
}

// DisplayName prefers the stored full name and falls back to composing it
// from the name parts.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.FirstName == "" && p.LastName == "" {
		return p.Email
	}
	return p.FirstName + " " + p.LastName
}

// Doc converts the profile into document fields. UserID is the document id
// and is not repeated inside the document.
func (p Profile) Doc() map[string]any {
	return map[string]any{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"fullName":  p.FullName,
		"email":     p.Email,
		"joinDate":  p.JoinDate,
	}
}

// ProfileFromDoc builds a Profile from the users document for the given id.
func ProfileFromDoc(userID string, doc map[string]any) Profile {
	return Profile{
		UserID:    userID,
		Email:     docString(doc, "email"),
		FirstName: docString(doc, "firstName"),
		LastName:  docString(doc, "lastName"),
		FullName:  docString(doc, "fullName"),
		JoinDate:  docString(doc, "joinDate"),
		CreatedAt: docString(doc, "createdAt"),
	}
}
