package requests

type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=100"`
	Password string `form:"password" json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=100"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func (u *CreateUserRequest) Validate() error {
	return validate.Struct(u)
}
