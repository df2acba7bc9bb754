package web

import (
	"net/url"
	"strconv"

	"github.com/conorfennell/examlog/internal/domain"
	"github.com/conorfennell/examlog/internal/exchange"
	"github.com/conorfennell/examlog/internal/storage"
)

func entities() []*entity {
	return []*entity{questions(), idioms(), examPapers(), essayPapers()}
}

func questions() *entity {
	e := &entity{
		Name:        exchange.Questions.Name,
		InputTitle:  "题目录入",
		ReviewTitle: "题目回顾",
		Detail:      true,
		table:       exchange.Questions,
		Fields: []field{
			{Name: "module", Label: "题型模块", Kind: "select", Options: domain.Modules, Required: true},
			{Name: "source", Label: "题目来源", Kind: "text", Required: true},
			{Name: "content", Label: "题目内容", Kind: "textarea", Required: true},
			{Name: "answer", Label: "正确答案", Kind: "text", Required: true},
			{Name: "analysis", Label: "错题解析", Kind: "textarea"},
			{Name: "question_type", Label: "题型", Kind: "text"},
			{Name: "entered_on", Label: "录入时间", Kind: "date"},
		},
		Filters: []filter{
			{Col: exchange.QuestionModule, Label: "题型模块", Kind: "select", Options: domain.Modules},
			{Col: exchange.QuestionSource, Label: "题目来源", Kind: "select", options: (*storage.DB).QuestionSources},
			{Col: exchange.QuestionType, Label: "题型", Kind: "text"},
			{Col: exchange.QuestionEnteredOn, Label: "录入时间", Kind: "date"},
			{Col: exchange.QuestionReviews, Label: "复盘次数", Kind: "number"},
		},
	}
	return bind(e, records[domain.Question]{
		get:    (*storage.DB).Question,
		add:    (*storage.DB).AddQuestion,
		update: (*storage.DB).UpdateQuestion,
		remove: (*storage.DB).DeleteQuestion,
		setID:  func(q *domain.Question, id int64) { q.ID = id },
		encode: func(q *domain.Question) url.Values {
			return url.Values{
				"module":        {q.Module},
				"source":        {q.Source},
				"content":       {q.Content},
				"answer":        {q.Answer},
				"analysis":      {q.Analysis},
				"question_type": {q.QuestionType},
				"entered_on":    {q.EnteredOn},
			}
		},
		decode: func(v url.Values) (*domain.Question, error) {
			return &domain.Question{
				Module:       text(v, "module"),
				Source:       text(v, "source"),
				Content:      text(v, "content"),
				Answer:       text(v, "answer"),
				Analysis:     text(v, "analysis"),
				QuestionType: text(v, "question_type"),
				EnteredOn:    text(v, "entered_on"),
			}, nil
		},
	})
}

func idioms() *entity {
	e := &entity{
		Name:        exchange.Idioms.Name,
		InputTitle:  "成语录入",
		ReviewTitle: "成语回顾",
		table:       exchange.Idioms,
		Fields: []field{
			{Name: "category", Label: "成语分类", Kind: "text", Required: true},
			{Name: "name", Label: "成语名称", Kind: "text", Required: true},
			{Name: "meaning", Label: "语义", Kind: "textarea", Required: true},
			{Name: "context", Label: "常用语境", Kind: "textarea"},
			{Name: "collocation", Label: "固定搭配", Kind: "text"},
			{Name: "example", Label: "例句", Kind: "textarea"},
			{Name: "entered_on", Label: "录入时间", Kind: "date"},
		},
		Filters: []filter{
			{Col: exchange.IdiomCategory, Label: "分类", Kind: "text"},
		},
	}
	return bind(e, records[domain.Idiom]{
		get:    (*storage.DB).Idiom,
		add:    (*storage.DB).AddIdiom,
		update: (*storage.DB).UpdateIdiom,
		remove: (*storage.DB).DeleteIdiom,
		setID:  func(i *domain.Idiom, id int64) { i.ID = id },
		encode: func(i *domain.Idiom) url.Values {
			return url.Values{
				"category":    {i.Category},
				"name":        {i.Name},
				"meaning":     {i.Meaning},
				"context":     {i.Context},
				"collocation": {i.Collocation},
				"example":     {i.Example},
				"entered_on":  {i.EnteredOn},
			}
		},
		decode: func(v url.Values) (*domain.Idiom, error) {
			return &domain.Idiom{
				Category:    text(v, "category"),
				Name:        text(v, "name"),
				Meaning:     text(v, "meaning"),
				Context:     text(v, "context"),
				Collocation: text(v, "collocation"),
				Example:     text(v, "example"),
				EnteredOn:   text(v, "entered_on"),
			}, nil
		},
		checkNew: func(db *storage.DB, i *domain.Idiom) error {
			exists, err := db.IdiomExists(i.Name)
			if err != nil {
				return err
			}
			if exists {
				return errIdiomExists
			}
			return nil
		},
	})
}

func examFields() []field {
	fields := []field{
		{Name: "year", Label: "年份", Kind: "number", Required: true},
		{Name: "completion_date", Label: "完成日期", Kind: "date", Required: true},
		{Name: "paper_name", Label: "卷名", Kind: "text", Required: true},
	}
	for _, s := range domain.Subjects {
		fields = append(fields,
			field{Name: s.Key + "_total", Label: s.Label + "总数", Kind: "number"},
			field{Name: s.Key + "_correct", Label: s.Label + "正确数", Kind: "number"},
		)
	}
	return append(fields,
		field{Name: "total_correct", Label: "总正确数", Kind: "number"},
		field{Name: "total_questions", Label: "总题量", Kind: "number"},
		field{Name: "score", Label: "成绩", Kind: "number"},
	)
}

func examPapers() *entity {
	e := &entity{
		Name:        exchange.ExamPapers.Name,
		InputTitle:  "行测套卷录入",
		ReviewTitle: "行测套题回顾",
		table:       exchange.ExamPapers,
		Fields:      examFields(),
		Filters: []filter{
			{Col: exchange.ExamYear, Label: "年份", Kind: "number"},
			{Col: exchange.ExamCompletionDate, Label: "完成日期", Kind: "date"},
		},
	}
	return bind(e, records[domain.ExamPaper]{
		get:    (*storage.DB).ExamPaper,
		add:    (*storage.DB).AddExamPaper,
		update: (*storage.DB).UpdateExamPaper,
		remove: (*storage.DB).DeleteExamPaper,
		setID:  func(p *domain.ExamPaper, id int64) { p.ID = id },
		encode: func(p *domain.ExamPaper) url.Values {
			v := url.Values{
				"year":            {strconv.Itoa(p.Year)},
				"completion_date": {p.CompletionDate},
				"paper_name":      {p.PaperName},
				"total_correct":   {strconv.Itoa(p.TotalCorrect)},
				"total_questions": {strconv.Itoa(p.TotalQuestions)},
				"score":           {strconv.FormatFloat(p.Score, 'f', -1, 64)},
			}
			for i, c := range p.Counters() {
				v.Set(domain.Subjects[i].Key+"_total", strconv.Itoa(*c[0]))
				v.Set(domain.Subjects[i].Key+"_correct", strconv.Itoa(*c[1]))
			}
			return v
		},
		decode: func(v url.Values) (*domain.ExamPaper, error) {
			p := &domain.ExamPaper{
				CompletionDate: text(v, "completion_date"),
				PaperName:      text(v, "paper_name"),
			}
			var err error
			if p.Year, err = intValue(v, "year", "年份"); err != nil {
				return nil, err
			}
			for i, c := range p.Counters() {
				s := domain.Subjects[i]
				if *c[0], err = intValue(v, s.Key+"_total", s.Label+"总数"); err != nil {
					return nil, err
				}
				if *c[1], err = intValue(v, s.Key+"_correct", s.Label+"正确数"); err != nil {
					return nil, err
				}
			}
			if p.TotalCorrect, err = intValue(v, "total_correct", "总正确数"); err != nil {
				return nil, err
			}
			if p.TotalQuestions, err = intValue(v, "total_questions", "总题量"); err != nil {
				return nil, err
			}
			if p.Score, err = floatValue(v, "score", "成绩"); err != nil {
				return nil, err
			}
			return p, nil
		},
	})
}

func essayPapers() *entity {
	e := &entity{
		Name:        exchange.EssayPapers.Name,
		InputTitle:  "申论录入",
		ReviewTitle: "申论回顾",
		table:       exchange.EssayPapers,
		Fields: []field{
			{Name: "year", Label: "年份", Kind: "number", Required: true},
			{Name: "province", Label: "省份", Kind: "text", Required: true},
			{Name: "question_type", Label: "题型", Kind: "text", Required: true},
			{Name: "source", Label: "来源", Kind: "text", Required: true},
			{Name: "date", Label: "日期", Kind: "date", Required: true},
			{Name: "content", Label: "题目", Kind: "textarea", Required: true},
			{Name: "completion_status", Label: "完成情况", Kind: "text", Required: true},
			{Name: "entered_on", Label: "录入时间", Kind: "date"},
		},
		Filters: []filter{
			{Col: exchange.EssayYear, Label: "年份", Kind: "number"},
			{Col: exchange.EssayProvince, Label: "省份", Kind: "text"},
			{Col: exchange.EssayQuestionType, Label: "题型", Kind: "text"},
			{Col: exchange.EssaySource, Label: "来源", Kind: "text"},
			{Col: exchange.EssayDate, Label: "日期", Kind: "date"},
		},
	}
	return bind(e, records[domain.EssayPaper]{
		get:    (*storage.DB).EssayPaper,
		add:    (*storage.DB).AddEssayPaper,
		update: (*storage.DB).UpdateEssayPaper,
		remove: (*storage.DB).DeleteEssayPaper,
		setID:  func(p *domain.EssayPaper, id int64) { p.ID = id },
		encode: func(p *domain.EssayPaper) url.Values {
			return url.Values{
				"year":              {strconv.Itoa(p.Year)},
				"province":          {p.Province},
				"question_type":     {p.QuestionType},
				"source":            {p.Source},
				"date":              {p.Date},
				"content":           {p.Content},
				"completion_status": {p.CompletionStatus},
				"entered_on":        {p.EnteredOn},
			}
		},
		decode: func(v url.Values) (*domain.EssayPaper, error) {
			year, err := intValue(v, "year", "年份")
			if err != nil {
				return nil, err
			}
			return &domain.EssayPaper{
				Year:             year,
				Province:         text(v, "province"),
				QuestionType:     text(v, "question_type"),
				Source:           text(v, "source"),
				Date:             text(v, "date"),
				Content:          text(v, "content"),
				CompletionStatus: text(v, "completion_status"),
				EnteredOn:        text(v, "entered_on"),
			}, nil
		},
	})
}
