package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/conorfennell/examlog/internal/domain"
	"github.com/conorfennell/examlog/internal/exchange"
	"github.com/conorfennell/examlog/internal/review"
)

const maxUpload = 32 << 20

// blank is an empty form with every date input set to today.
func (s *Server) blank(e *entity) url.Values {
	v := url.Values{}
	today := s.now().Format(domain.DateLayout)
	for _, f := range e.Fields {
		if f.Kind == "date" {
			v.Set(f.Name, today)
		}
	}
	return v
}

// handleNew renders the input screen of an entity.
func (s *Server) handleNew(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, &view{
			Page: "form", Title: e.InputTitle, Entity: e,
			Action: "/" + e.Name, Values: s.blank(e),
		})
	}
}

// handleCreate adds a record and returns to an empty input screen.
func (s *Server) handleCreate(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		if err := e.save(s.db, 0, r.PostForm); err != nil {
			s.formFailed(w, r, e, "/"+e.Name, false, err)
			return
		}
		redirect(w, r, "/"+e.Name+"/new", "保存成功！")
	}
}

// handleEdit renders the form of an existing record.
func (s *Server) handleEdit(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		values, err := e.load(s.db, id)
		if err != nil {
			s.fail(w, "Failed to load record", err, "entity", e.Name, "id", id)
			return
		}
		if values == nil {
			http.NotFound(w, r)
			return
		}
		s.render(w, r, http.StatusOK, &view{
			Page: "form", Title: "编辑" + e.table.Title, Entity: e,
			Action: fmt.Sprintf("/%s/%d", e.Name, id), Values: values, Editing: true,
		})
	}
}

// handleUpdate replaces a record and returns to the review screen.
func (s *Server) handleUpdate(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		if err := e.save(s.db, id, r.PostForm); err != nil {
			s.formFailed(w, r, e, fmt.Sprintf("/%s/%d", e.Name, id), true, err)
			return
		}
		redirect(w, r, "/"+e.Name, "修改成功！")
	}
}

// formFailed re-renders a rejected form with the submitted values, or
// fails the request when the error is not the user's to fix.
func (s *Server) formFailed(w http.ResponseWriter, r *http.Request, e *entity, action string, editing bool, err error) {
	msg, ok := userMessage(err)
	if !ok {
		s.fail(w, "Failed to save record", err, "entity", e.Name)
		return
	}
	title := e.InputTitle
	if editing {
		title = "编辑" + e.table.Title
	}
	s.render(w, r, http.StatusUnprocessableEntity, &view{
		Page: "form", Title: title, Entity: e, Error: msg,
		Action: action, Values: r.PostForm, Editing: editing,
	})
}

// handleDelete removes a record. Unknown IDs are not an error.
func (s *Server) handleDelete(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := e.remove(s.db, id); err != nil {
			s.fail(w, "Failed to delete record", err, "entity", e.Name, "id", id)
			return
		}
		redirect(w, r, "/"+e.Name, "删除成功！")
	}
}

// handleReview renders the filtered and sorted table of an entity.
func (s *Server) handleReview(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := e.table.Rows(s.db)
		if err != nil {
			s.fail(w, "Failed to list rows", err, "entity", e.Name)
			return
		}

		query := r.URL.Query()
		criteria := review.Criteria{Keyword: strings.TrimSpace(query.Get("q")), Equal: map[int]string{}}
		filters := make([]filterView, len(e.Filters))
		for i, f := range e.Filters {
			fv := filterView{filter: f, Value: strings.TrimSpace(query.Get(f.Param())), Choices: f.Options}
			if f.options != nil {
				if fv.Choices, err = f.options(s.db); err != nil {
					s.fail(w, "Failed to load filter options", err, "entity", e.Name)
					return
				}
			}
			criteria.Equal[f.Col] = fv.Value
			filters[i] = fv
		}

		order := review.ParseOrder(query.Get("order"))
		review.Sort(rows, order, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		shown := review.Filter(rows, criteria)

		toggle := url.Values{}
		for k, vs := range query {
			toggle[k] = vs
		}
		toggle.Set("order", order.Next().String())

		s.render(w, r, http.StatusOK, &view{
			Page: "review", Title: e.ReviewTitle, Entity: e,
			Header: e.table.Header, Rows: shown, Total: len(rows),
			Keyword: criteria.Keyword, Filters: filters, Order: order,
			ToggleURL: template.URL("/" + e.Name + "?" + toggle.Encode()),
		})
	}
}

// handleExport downloads the whole table as CSV or XLSX.
func (s *Server) handleExport(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := exchange.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Buffered so a failed export can still answer with an error status.
		var buf bytes.Buffer
		if err := e.table.Export(s.db, &buf, format); err != nil {
			s.fail(w, "Failed to export table", err, "entity", e.Name)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, e.Name, format.Ext()))
		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("Failed to send export", "entity", e.Name, "error", err)
		}
	}
}

// handleImport adds every row of an uploaded file and reports the outcome
// on the review screen.
func (s *Server) handleImport(e *entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			redirect(w, r, "/"+e.Name, "请选择要导入的文件")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			redirect(w, r, "/"+e.Name, "请选择要导入的文件")
			return
		}
		defer file.Close()

		n, err := e.table.Import(s.db, file, exchange.FormatFromPath(header.Filename))
		if err != nil {
			msg, ok := userMessage(err)
			if !ok {
				msg = "导入失败: " + err.Error()
			}
			redirect(w, r, "/"+e.Name, fmt.Sprintf("%s（已导入 %d 条）", msg, n))
			return
		}
		redirect(w, r, "/"+e.Name, fmt.Sprintf("成功导入 %d 条记录", n))
	}
}

// handleQuestion renders the detail screen of one question.
func (s *Server) handleQuestion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		q, err := s.db.Question(id)
		if err != nil {
			s.fail(w, "Failed to load question", err, "id", id)
			return
		}
		if q == nil {
			http.NotFound(w, r)
			return
		}
		s.render(w, r, http.StatusOK, &view{
			Page: "detail", Title: "题目详情", Entity: s.entities[0], Question: q,
			Details: []detail{
				{"题型模块", q.Module},
				{"题目来源", q.Source},
				{"题目内容", q.Content},
				{"正确答案", q.Answer},
				{"错题解析", q.Analysis},
				{"题型", q.QuestionType},
				{"复盘次数", strconv.Itoa(q.ReviewCount)},
				{"录入时间", q.EnteredOn},
			},
		})
	}
}

// handleMarkReview counts one more review of a question.
func (s *Server) handleMarkReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.db.IncrementReview(id); err != nil {
			s.fail(w, "Failed to mark review", err, "id", id)
			return
		}
		redirect(w, r, fmt.Sprintf("/questions/%d", id), "已标记复盘")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
