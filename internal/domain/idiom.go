package domain

import "time"

// Idiom is a four-character idiom with its usage notes. Name is unique.
type Idiom struct {
	ID          int64     `db:"id"`
	Category    string    `db:"category" label:"成语分类" validate:"required"`
	Name        string    `db:"name" label:"成语名称" validate:"required"`
	Meaning     string    `db:"meaning" label:"语义" validate:"required"`
	Context     string    `db:"context" label:"常用语境"`
	Collocation string    `db:"collocation" label:"固定搭配"`
	Example     string    `db:"example" label:"例句"`
	CreatedAt   time.Time `db:"created_at"`
	EnteredOn   string    `db:"entered_on" label:"录入时间" validate:"omitempty,datetime=2006-01-02"`
}
