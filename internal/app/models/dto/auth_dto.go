package dto

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Name            string `form:"name" json:"name"`
	Surname         string `form:"surname" json:"surname"`
	StudentNum      string `form:"student_num" json:"studentNum"`
	ContactNum      string `form:"contact_num" json:"contactNum"`
	ModuleCode      string `form:"module_code" json:"moduleCode"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"-"`
	ConfirmPassword string `form:"confirm_password" json:"-"`
}

// Fields returns the non-secret values to echo back on a failed submission.
func (r *RegisterRequest) Fields() map[string]string {
	return map[string]string{
		"name":        r.Name,
		"surname":     r.Surname,
		"student_num": r.StudentNum,
		"contact_num": r.ContactNum,
		"module_code": r.ModuleCode,
		"email":       r.Email,
	}
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"-"`
}

// Fields returns the non-secret values to echo back on a failed submission.
func (r *LoginRequest) Fields() map[string]string {
	return map[string]string{
		"email": r.Email,
	}
}
