package user

import "time"

type User struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Lastname     string     `db:"lastname" json:"lastname"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Birthdate    *time.Time `db:"birthdate" json:"birthdate,omitempty"`
	Role         string     `db:"role" json:"role"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type CreateParams struct {
	Name         string
	Lastname     string
	Email        string
	PasswordHash string
	Birthdate    *time.Time
	Role         string
}

type RegisterRequest struct {
	Name      string `json:"name" binding:"required,max=80"`
	Lastname  string `json:"lastname" binding:"required,max=80"`
	Email     string `json:"email" binding:"required,email,max=120"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Birthdate string `json:"birthdate" binding:"omitempty,isodate" example:"1995-03-12"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         User   `json:"user"`
}
