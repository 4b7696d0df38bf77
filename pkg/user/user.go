package user

import "time"

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	CreatedAt   time.Time
}
