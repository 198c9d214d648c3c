package models

import "time"

// Notification is a per-user feed entry written whenever a task the user
// participates in is mutated by someone else.
type Notification struct {
	ID        string    `cassandra:"id" json:"id"`
	UserID    string    `cassandra:"user_id" json:"userId"`
	TaskID    string    `cassandra:"task_id" json:"taskId"`
	Message   string    `cassandra:"message" json:"message"`
	CreatedAt time.Time `cassandra:"created_at" json:"createdAt"`
	IsRead    bool      `cassandra:"is_read" json:"isRead"`
}
