package auth

type SignupInput struct {
	FirstName string `json:"firstName" validate:"required,alphanum,min=1,max=25"`
	LastName  string `json:"lastName" validate:"required,alphanum,min=1,max=25"`
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=35"`
	IPAddress string `json:"-"`
}

type AuthenticateInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	Username     string `json:"username" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type InvalidateInput struct {
	Username     string `json:"username" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type InvalidateAllInput struct {
	Username string `json:"username" validate:"required"`
}

type ForgotInput struct {
	Email string `json:"email" validate:"required,email"`
}

type CheckResetTokenInput struct {
	Email              string `json:"email" validate:"required,email"`
	PasswordResetToken string `json:"passwordResetToken" validate:"required"`
}

type ResetPasswordInput struct {
	Email              string `json:"email" validate:"required,email"`
	PasswordResetToken string `json:"passwordResetToken" validate:"required"`
	Password           string `json:"password" validate:"required,min=8,max=35"`
}
