package models

type User struct {
	Base
	Email        string  `gorm:"uniqueIndex;not null"`
	PasswordHash string  `json:"-"`
	Name         string  `json:"name"`
	ProfilePhoto string  `json:"profile_photo"`
	DiscordID    *string `gorm:"uniqueIndex" json:"-"`
	Trips        []Trip  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
