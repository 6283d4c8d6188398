package domain

import "time"

// User is an authenticated principal: a task owner or assignee.
type User struct {
	ID        string
	Name      string
	Email     string
	Token     string
	IsActive  bool
	CreatedAt time.Time
}
