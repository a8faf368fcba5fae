package entity

type User struct {
	Base
	Number       string `db:"number"`
	PasswordHash string `db:"password"`
}
