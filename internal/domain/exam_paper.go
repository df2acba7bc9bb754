package domain

import "time"

// Subject is one scored section of a mock exam paper.
type Subject struct {
	Key   string
	Label string
}

// Subjects lists the sections of an exam paper in display order. The order
// matches ExamPaper.Counters.
var Subjects = []Subject{
	{Key: "politics", Label: "政治"},
	{Key: "general_knowledge", Label: "常识"},
	{Key: "logic", Label: "逻辑填空"},
	{Key: "fragment", Label: "片段阅读"},
	{Key: "quantitative", Label: "数量关系"},
	{Key: "graphic_reasoning", Label: "图形推理"},
	{Key: "definition", Label: "定义判断"},
	{Key: "analogy", Label: "类比推理"},
	{Key: "judgment", Label: "逻辑判断"},
	{Key: "data_analysis", Label: "资料分析"},
}

// ExamPaper is the score sheet of one full mock exam. The per-subject
// counters and the totals are entered independently; nothing checks that
// they add up.
type ExamPaper struct {
	ID             int64  `db:"id"`
	Year           int    `db:"year" label:"年份" validate:"gt=0"`
	CompletionDate string `db:"completion_date" label:"完成日期" validate:"required,datetime=2006-01-02"`
	PaperName      string `db:"paper_name" label:"卷名" validate:"required"`

	PoliticsTotal           int `db:"politics_total" label:"政治总数" validate:"gte=0"`
	PoliticsCorrect         int `db:"politics_correct" label:"政治正确数" validate:"gte=0"`
	GeneralKnowledgeTotal   int `db:"general_knowledge_total" label:"常识总数" validate:"gte=0"`
	GeneralKnowledgeCorrect int `db:"general_knowledge_correct" label:"常识正确数" validate:"gte=0"`
	LogicTotal              int `db:"logic_total" label:"逻辑填空总数" validate:"gte=0"`
	LogicCorrect            int `db:"logic_correct" label:"逻辑填空正确数" validate:"gte=0"`
	FragmentTotal           int `db:"fragment_total" label:"片段阅读总数" validate:"gte=0"`
	FragmentCorrect         int `db:"fragment_correct" label:"片段阅读正确数" validate:"gte=0"`
	QuantitativeTotal       int `db:"quantitative_total" label:"数量关系总数" validate:"gte=0"`
	QuantitativeCorrect     int `db:"quantitative_correct" label:"数量关系正确数" validate:"gte=0"`
	GraphicReasoningTotal   int `db:"graphic_reasoning_total" label:"图形推理总数" validate:"gte=0"`
	GraphicReasoningCorrect int `db:"graphic_reasoning_correct" label:"图形推理正确数" validate:"gte=0"`
	DefinitionTotal         int `db:"definition_total" label:"定义判断总数" validate:"gte=0"`
	DefinitionCorrect       int `db:"definition_correct" label:"定义判断正确数" validate:"gte=0"`
	AnalogyTotal            int `db:"analogy_total" label:"类比推理总数" validate:"gte=0"`
	AnalogyCorrect          int `db:"analogy_correct" label:"类比推理正确数" validate:"gte=0"`
	JudgmentTotal           int `db:"judgment_total" label:"逻辑判断总数" validate:"gte=0"`
	JudgmentCorrect         int `db:"judgment_correct" label:"逻辑判断正确数" validate:"gte=0"`
	DataAnalysisTotal       int `db:"data_analysis_total" label:"资料分析总数" validate:"gte=0"`
	DataAnalysisCorrect     int `db:"data_analysis_correct" label:"资料分析正确数" validate:"gte=0"`

	TotalCorrect   int       `db:"total_correct" label:"总正确数" validate:"gte=0"`
	TotalQuestions int       `db:"total_questions" label:"总题量" validate:"gte=0"`
	Score          float64   `db:"score" label:"成绩"`
	CreatedAt      time.Time `db:"created_at"`
}

// Counters returns pointers to the (total, correct) pair of every subject,
// in Subjects order.
func (p *ExamPaper) Counters() [][2]*int {
	return [][2]*int{
		{&p.PoliticsTotal, &p.PoliticsCorrect},
		{&p.GeneralKnowledgeTotal, &p.GeneralKnowledgeCorrect},
		{&p.LogicTotal, &p.LogicCorrect},
		{&p.FragmentTotal, &p.FragmentCorrect},
		{&p.QuantitativeTotal, &p.QuantitativeCorrect},
		{&p.GraphicReasoningTotal, &p.GraphicReasoningCorrect},
		{&p.DefinitionTotal, &p.DefinitionCorrect},
		{&p.AnalogyTotal, &p.AnalogyCorrect},
		{&p.JudgmentTotal, &p.JudgmentCorrect},
		{&p.DataAnalysisTotal, &p.DataAnalysisCorrect},
	}
}
