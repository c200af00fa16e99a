package user

import "time"

type User struct {
	ID             string    `yaml:"id" json:"id"`
	Email          string    `yaml:"email" json:"email"`
	HashedPassword string    `yaml:"hashed_password" json:"-"`
	IsAdmin        bool      `yaml:"is_admin" json:"is_admin"`
	Skills         string    `yaml:"skills,omitempty" json:"skills,omitempty"`
	CreatedAt      time.Time `yaml:"created_at" json:"created_at"`
}
