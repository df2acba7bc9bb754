package domain

import "time"

// DateLayout is the layout of every user-entered date field.
const DateLayout = "2006-01-02"

// Modules are the five sections of the aptitude test a question can belong to.
var Modules = []string{"言语理解", "数量关系", "判断推理", "资料分析", "常识判断"}

// Question is a practice question the user got wrong and wants to revisit.
// ReviewCount only ever grows, through storage.DB.IncrementReview.
type Question struct {
	ID           int64     `db:"id"`
	Module       string    `db:"module" label:"题型模块" validate:"required,oneof=言语理解 数量关系 判断推理 资料分析 常识判断"`
	Source       string    `db:"source" label:"题目来源" validate:"required"`
	Content      string    `db:"content" label:"题目内容" validate:"required"`
	Answer       string    `db:"answer" label:"正确答案" validate:"required"`
	Analysis     string    `db:"analysis" label:"错题解析"`
	QuestionType string    `db:"question_type" label:"题型"`
	ReviewCount  int       `db:"review_count" label:"复盘次数" validate:"gte=0"`
	CreatedAt    time.Time `db:"created_at"`
	EnteredOn    string    `db:"entered_on" label:"录入时间" validate:"omitempty,datetime=2006-01-02"`
}
