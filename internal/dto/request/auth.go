package request

type CheckNumberRequest struct {
	Number string `json:"number" validate:"required,phone"`
}

type VerifyCodeRequest struct {
	Number string `json:"number" validate:"required,phone"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

type SignupRequest struct {
	Number   string `json:"number" validate:"required,phone"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Number   string `json:"number" validate:"required,phone"`
	Password string `json:"password" validate:"required"`
}
