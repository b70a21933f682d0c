package users

// User is a registered account. Password holds the stored credential
// (an argon2id hash, or plain text for records written by older versions).
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (u User) GetID() int { return u.ID }
