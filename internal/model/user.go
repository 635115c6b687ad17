package model

import "time"

// User — серверная модель пользователя.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt-хеш

	Nickname string
	Email    string
	UserPic  string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Profile возвращает публичную часть пользователя в виде открытой записи,
// которую отдаёт эндпоинт профиля.
func (u *User) Profile() map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Login,
		"nickname": u.Nickname,
		"email":    u.Email,
		"user_pic": u.UserPic,
	}
}
