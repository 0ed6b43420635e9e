package service

// Client-facing messages. Wrong email and wrong password share one message
// so a caller cannot tell which one failed.
const (
	MsgWrongCredentials = "wrong email or password"
	MsgUserExists       = "user with this email already exists"
	MsgUserNotFound     = "user not found"
	MsgCardNotFound     = "card not found"
	MsgNotCardOwner     = "not enough rights to delete this card"
	MsgCardDeleted      = "card deleted"
	MsgFieldValidation  = "field validation failed"
	MsgInvalidData      = "invalid data passed"
	MsgPasswordTooLong  = "password is too long"
)
