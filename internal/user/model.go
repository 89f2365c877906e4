package user

import (
	"time"
)

type User struct {
	ID                   int64      `json:"id"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Username             string     `json:"username"`
	FechaNacimiento      time.Time  `json:"fecha_nacimiento"`
	ResetPasswordToken   *string    `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Profile is the public projection of a user. It never carries the password
// hash or reset token.
type Profile struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Edad            *int   `json:"edad,omitempty"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		FechaNacimiento: u.FechaNacimiento.Format(time.DateOnly),
	}
}

// ProfileWithAge adds the age computed against now
func (u *User) ProfileWithAge(now time.Time) Profile {
	p := u.Profile()
	age := Age(u.FechaNacimiento, now)
	p.Edad = &age
	return p
}

// Age is the difference in calendar years only. Someone born in December is
// counted a year older from January 1st.
func Age(birth, now time.Time) int {
	return now.Year() - birth.Year()
}

// UpdateFields holds a partial profile update. Nil fields are left untouched.
type UpdateFields struct {
	Email           *string
	Username        *string
	FechaNacimiento *time.Time
}

func (f UpdateFields) Empty() bool {
	return f.Email == nil && f.Username == nil && f.FechaNacimiento == nil
}
