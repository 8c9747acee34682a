package models

// Task belongs to exactly one user. Completed is stored as 0/1 by the
// underlying driver and serialized as a JSON boolean.
type Task struct {
	ID          uint   `gorm:"column:task_id;primaryKey" json:"task_id"`
	UserID      uint   `gorm:"column:user_id;index;not null" json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (Task) TableName() string {
	return "tasks"
}
