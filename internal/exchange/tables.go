package exchange

import (
	"fmt"
	"strconv"

	"github.com/conorfennell/examlog/internal/domain"
)

// Column positions shared by the review filters.
const (
	QuestionModule    = 1
	QuestionSource    = 2
	QuestionReviews   = 6
	QuestionType      = 7
	QuestionEnteredOn = 8

	IdiomCategory = 1

	ExamYear           = 1
	ExamCompletionDate = 2

	EssayYear         = 1
	EssayProvince     = 2
	EssayQuestionType = 3
	EssaySource       = 4
	EssayDate         = 5
)

// Questions is the mistaken-question table.
var Questions = newTable("questions", "题目",
	[]string{"ID", "题型模块", "题目来源", "题目内容", "正确答案", "错题解析", "复盘次数", "题型", "录入时间"},
	Store.ListQuestions, Store.AddQuestion,
	func(q *domain.Question) int64 { return q.ID },
	func(q *domain.Question) []string {
		return []string{
			itoa64(q.ID), q.Module, q.Source, q.Content, q.Answer, q.Analysis,
			strconv.Itoa(q.ReviewCount), q.QuestionType, q.EnteredOn,
		}
	},
	func(rec []string) (*domain.Question, error) {
		reviews, err := atoi("复盘次数", rec[6])
		if err != nil {
			return nil, err
		}
		return &domain.Question{
			Module:       rec[1],
			Source:       rec[2],
			Content:      rec[3],
			Answer:       rec[4],
			Analysis:     rec[5],
			ReviewCount:  reviews,
			QuestionType: rec[7],
			EnteredOn:    rec[8],
		}, nil
	},
)

// Idioms is the idiom table.
var Idioms = newTable("idioms", "成语",
	[]string{"ID", "分类", "名称", "语义", "常用语境", "固定搭配", "例句", "录入时间"},
	Store.ListIdioms, Store.AddIdiom,
	func(i *domain.Idiom) int64 { return i.ID },
	func(i *domain.Idiom) []string {
		return []string{
			itoa64(i.ID), i.Category, i.Name, i.Meaning, i.Context, i.Collocation, i.Example, i.EnteredOn,
		}
	},
	func(rec []string) (*domain.Idiom, error) {
		return &domain.Idiom{
			Category:    rec[1],
			Name:        rec[2],
			Meaning:     rec[3],
			Context:     rec[4],
			Collocation: rec[5],
			Example:     rec[6],
			EnteredOn:   rec[7],
		}, nil
	},
)

func examHeader() []string {
	header := []string{"ID", "年份", "完成日期", "卷名"}
	for _, s := range domain.Subjects {
		header = append(header, s.Label+"总数", s.Label+"正确数")
	}
	return append(header, "总正确数", "总题量", "成绩")
}

// ExamPapers is the mock-exam score sheet table.
var ExamPapers = newTable("exams", "套卷",
	examHeader(),
	Store.ListExamPapers, Store.AddExamPaper,
	func(p *domain.ExamPaper) int64 { return p.ID },
	func(p *domain.ExamPaper) []string {
		cells := []string{itoa64(p.ID), strconv.Itoa(p.Year), p.CompletionDate, p.PaperName}
		for _, c := range p.Counters() {
			cells = append(cells, strconv.Itoa(*c[0]), strconv.Itoa(*c[1]))
		}
		return append(cells,
			strconv.Itoa(p.TotalCorrect),
			strconv.Itoa(p.TotalQuestions),
			strconv.FormatFloat(p.Score, 'f', -1, 64),
		)
	},
	func(rec []string) (*domain.ExamPaper, error) {
		header := examHeader()
		p := &domain.ExamPaper{CompletionDate: rec[2], PaperName: rec[3]}
		var err error
		if p.Year, err = atoi(header[1], rec[1]); err != nil {
			return nil, err
		}
		col := 4
		for _, c := range p.Counters() {
			for k := 0; k < 2; k++ {
				if *c[k], err = atoi(header[col], rec[col]); err != nil {
					return nil, err
				}
				col++
			}
		}
		if p.TotalCorrect, err = atoi(header[col], rec[col]); err != nil {
			return nil, err
		}
		if p.TotalQuestions, err = atoi(header[col+1], rec[col+1]); err != nil {
			return nil, err
		}
		if p.Score, err = strconv.ParseFloat(rec[col+2], 64); err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", header[col+2], rec[col+2])
		}
		return p, nil
	},
)

// EssayPapers is the essay assignment table.
var EssayPapers = newTable("essays", "申论",
	[]string{"ID", "年份", "省份", "题型", "来源", "日期", "题目", "完成情况", "录入时间"},
	Store.ListEssayPapers, Store.AddEssayPaper,
	func(e *domain.EssayPaper) int64 { return e.ID },
	func(e *domain.EssayPaper) []string {
		return []string{
			itoa64(e.ID), strconv.Itoa(e.Year), e.Province, e.QuestionType, e.Source,
			e.Date, e.Content, e.CompletionStatus, e.EnteredOn,
		}
	},
	func(rec []string) (*domain.EssayPaper, error) {
		year, err := atoi("年份", rec[1])
		if err != nil {
			return nil, err
		}
		return &domain.EssayPaper{
			Year:             year,
			Province:         rec[2],
			QuestionType:     rec[3],
			Source:           rec[4],
			Date:             rec[5],
			Content:          rec[6],
			CompletionStatus: rec[7],
			EnteredOn:        rec[8],
		}, nil
	},
)

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

func atoi(column, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", column, s)
	}
	return n, nil
}
