package models

// User is an account holder. PasswordHash is never serialized; responses use
// types.UserResponse instead. There is no deletion path for users.
type User struct {
	ID           uint   `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username     string `json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Tasks []Task `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
