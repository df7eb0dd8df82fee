package model

// Reference is a normalized pointer to a master data record. Business logic
// keys off ID; Name is carried only for display and export.
type Reference struct {
	ID   string `json:"id" yaml:"id" firestore:"id"`
	Name string `json:"name" yaml:"name" firestore:"name"`
}

// IsZero reports whether the reference is unset
func (r Reference) IsZero() bool {
	return r.ID == "" && r.Name == ""
}
