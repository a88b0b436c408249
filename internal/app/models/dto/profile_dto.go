package dto

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Name       string `form:"name" json:"name"`
	Surname    string `form:"surname" json:"surname"`
	ContactNum string `form:"contact_num" json:"contactNum"`
	ModuleCode string `form:"module_code" json:"moduleCode"`
}

// Fields returns the submitted values to echo back on a failed submission.
func (r *UpdateProfileRequest) Fields() map[string]string {
	return map[string]string{
		"name":        r.Name,
		"surname":     r.Surname,
		"contact_num": r.ContactNum,
		"module_code": r.ModuleCode,
	}
}

// ProfilePage is the full profile endpoint payload: the current user data
// plus the outcome of a submitted sub-action, if any.
type ProfilePage struct {
	Profile *ProfileResponse  `json:"profile"`
	Errors  []string          `json:"errors,omitempty"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ProfileResponse is the profile page payload, re-fetched from the store on
// every load so displayed data always reflects the latest state.
type ProfileResponse struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	ContactNum     string `json:"contactNum"`
	ModuleCode     string `json:"moduleCode"`
	ProfilePicture string `json:"profilePicture"` // Resolved path, falls back to the default image
}
