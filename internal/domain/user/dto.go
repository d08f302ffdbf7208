package user

import "time"

type CreateUserDTO struct {
	UserName string     `json:"userName" binding:"required,min=3,max=32,alphanum"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Email    string     `json:"email" binding:"omitempty,email"`
	Phone    string     `json:"phone" binding:"omitempty,e164"`
	Avatar   string     `json:"avatar" binding:"omitempty,url"`
	Gender   string     `json:"gender" binding:"omitempty,oneof=male female other"`
	FullName string     `json:"fullName" binding:"omitempty,max=64"`
	Birthday *time.Time `json:"birthday"`
	Address  string     `json:"address" binding:"omitempty,max=255"`
}

type LoginDTO struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
