package model

const (
	DefaultUserName   = "Jacques-Yves Cousteau"
	DefaultUserAbout  = "Explorer"
	DefaultUserAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name" validate:"min=2,max=30"`
	About    string `json:"about" validate:"min=2,max=30"`
	Avatar   string `json:"avatar" validate:"weburl"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"-"` // bcrypt hash, never serialized
}

// NewUserParams carries signup input; nil optional fields receive defaults.
type NewUserParams struct {
	Name         *string
	About        *string
	Avatar       *string
	Email        string
	PasswordHash string
}

// NewUser builds a User ready for insertion, filling defaults for every
// optional field the caller left out.
func NewUser(p NewUserParams) *User {
	return &User{
		Name:     valueOr(p.Name, DefaultUserName),
		About:    valueOr(p.About, DefaultUserAbout),
		Avatar:   valueOr(p.Avatar, DefaultUserAvatar),
		Email:    p.Email,
		Password: p.PasswordHash,
	}
}

// UserUpdate lists the fields a user may change on their own record. Nil
// fields are left untouched.
type UserUpdate struct {
	Name   *string `json:"name" validate:"omitnil,min=2,max=30"`
	About  *string `json:"about" validate:"omitnil,min=2,max=30"`
	Avatar *string `json:"avatar" validate:"omitnil,weburl"`
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.About == nil && u.Avatar == nil
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
