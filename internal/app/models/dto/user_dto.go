package dto

// CreateUserRequest is the admin "add user" form. Which optional fields are
// required depends on the role; the user service enforces that.
type CreateUserRequest struct {
	Role         string `json:"role" binding:"required,oneof=student department_officer system_admin"`
	FullName     string `json:"fullName"`
	Username     string `json:"username" binding:"omitempty,min=3,max=50"`
	Email        string `json:"email" binding:"omitempty,email"`
	Password     string `json:"password" binding:"required,min=6"`
	UniversityID string `json:"universityId"`
	Department   string `json:"department"`
	Stage        string `json:"stage"`
	StudyType    string `json:"studyType"`
}

// UpdateUserRequest is the admin edit form. Password is applied only when
// provided.
type UpdateUserRequest struct {
	Role         string `json:"role" binding:"required,oneof=student department_officer system_admin"`
	FullName     string `json:"fullName"`
	Username     string `json:"username" binding:"omitempty,min=3,max=50"`
	Email        string `json:"email" binding:"omitempty,email"`
	Password     string `json:"password" binding:"omitempty,min=6"`
	UniversityID string `json:"universityId"`
	Department   string `json:"department"`
	Stage        string `json:"stage"`
	StudyType    string `json:"studyType"`
}
