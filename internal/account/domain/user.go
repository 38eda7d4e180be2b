package domain

import "time"

type User struct {
	UId      int64     `gorm:"column:uid;primaryKey;autoIncrement;" json:"uid"`
	Username string    `gorm:"column:username;type:varchar(20);uniqueIndex;not null;" json:"username"`
	Passcode string    `gorm:"column:passcode;type:varchar(255);" json:"-"`
	Passwd   string    `gorm:"column:passwd;type:varchar(255);" json:"-"`
	Status   int       `gorm:"column:status;default:1;" json:"status"` // 1 active, 0 disabled
	Ctime    time.Time `gorm:"column:ctime;autoCreateTime;" json:"ctime"`
	Mtime    time.Time `gorm:"column:mtime;autoUpdateTime;" json:"mtime"`
}

func (User) TableName() string {
	return "user_info"
}

// CheckPassword compares the stored hash against the encrypted input.
func (u User) CheckPassword(pwd string, encrypt func(plaintext, passcode string) string) bool {
	if pwd == "" || encrypt == nil {
		return false
	}
	return encrypt(pwd, u.Passcode) == u.Passwd
}
