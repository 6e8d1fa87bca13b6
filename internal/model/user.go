package model

// User is a back-office login
type User struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	Username string `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	Password string `json:"-" gorm:"type:varchar(255);not null"`
	Role     string `json:"role" gorm:"type:varchar(20);not null"`
	Status   string `json:"status" gorm:"type:varchar(1);not null;default:A"`
}
