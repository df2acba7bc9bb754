package domain

import "time"

// EssayPaper is one essay-writing (申论) assignment.
type EssayPaper struct {
	ID               int64     `db:"id"`
	Year             int       `db:"year" label:"年份" validate:"gt=0"`
	Province         string    `db:"province" label:"省份" validate:"required"`
	QuestionType     string    `db:"question_type" label:"题型" validate:"required"`
	Source           string    `db:"source" label:"来源" validate:"required"`
	Date             string    `db:"date" label:"日期" validate:"required,datetime=2006-01-02"`
	Content          string    `db:"content" label:"题目" validate:"required"`
	CompletionStatus string    `db:"completion_status" label:"完成情况" validate:"required"`
	EnteredOn        string    `db:"entered_on" label:"录入时间" validate:"omitempty,datetime=2006-01-02"`
	CreatedAt        time.Time `db:"created_at"`
}
