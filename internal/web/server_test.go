package web

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/conorfennell/examlog/internal/domain"
	"github.com/conorfennell/examlog/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewServer(db)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	s.now = func() time.Time { return time.Date(2024, 3, 2, 9, 0, 0, 0, time.Local) }
	return s, db
}

func do(t *testing.T, s *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func flashOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge >= 0 {
			msg, err := url.QueryUnescape(c.Value)
			if err != nil {
				t.Fatalf("bad flash cookie %q", c.Value)
			}
			return msg
		}
	}
	return ""
}

func questionForm() url.Values {
	return url.Values{
		"module":        {"数量关系"},
		"source":        {"2023国考"},
		"content":       {"甲乙两人相向而行"},
		"answer":        {"C"},
		"analysis":      {"路程和除以速度和"},
		"question_type": {"行程问题"},
		"entered_on":    {"2023-05-01"},
	}
}

func TestQuestionWorkflow(t *testing.T) {
	s, db := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/questions", questionForm())
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/questions/new" {
		t.Fatalf("Expected redirect to the input screen, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if got := flashOf(t, rec); got != "保存成功！" {
		t.Errorf("Expected success flash, got %q", got)
	}

	list, err := db.ListQuestions()
	if err != nil || len(list) != 1 {
		t.Fatalf("Expected one question, got %v (err %v)", list, err)
	}
	id := list[0].ID
	detail := "/questions/" + itoa(id)

	for i := 0; i < 2; i++ {
		if rec := do(t, s, http.MethodPost, detail+"/review", nil); rec.Code != http.StatusSeeOther {
			t.Fatalf("Expected redirect after review, got %d", rec.Code)
		}
	}
	q, err := db.Question(id)
	if err != nil {
		t.Fatal(err)
	}
	if q.ReviewCount != 2 {
		t.Errorf("Expected review count 2, got %d", q.ReviewCount)
	}

	rec = do(t, s, http.MethodGet, detail, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "标记复盘") {
		t.Errorf("Expected the detail screen, got %d", rec.Code)
	}

	testCases := []struct {
		name  string
		query string
		want  bool
	}{
		{"no filter", "", true},
		{"question type", "c7=" + url.QueryEscape("行程问题"), true},
		{"review count", "c6=2", true},
		{"other module and keyword", "c1=" + url.QueryEscape("言语理解") + "&q=zzz", false},
		{"keyword ignores case", "q=c", true},
		{"other source", "c2=" + url.QueryEscape("2022省考"), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/questions?"+tc.query, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}
			got := strings.Contains(rec.Body.String(), "甲乙两人相向而行")
			if got != tc.want {
				t.Errorf("Expected row shown = %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNewFormDefaultsDatesToToday(t *testing.T) {
	s, _ := newTestServer(t)

	testCases := []struct {
		target string
		inputs []string
	}{
		{"/idioms/new", []string{"entered_on"}},
		{"/questions/new", []string{"entered_on"}},
		{"/exams/new", []string{"completion_date"}},
		{"/essays/new", []string{"date", "entered_on"}},
	}
	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tc.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}
			for _, name := range tc.inputs {
				want := `name="` + name + `" value="2024-03-02"`
				if !strings.Contains(rec.Body.String(), want) {
					t.Errorf("Expected %s to default to today", name)
				}
			}
		})
	}
}

func TestExportFailureReportsError(t *testing.T) {
	s, db := newTestServer(t)
	db.Close()

	rec := do(t, s, http.MethodGet, "/questions/export?format=csv", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 when the table cannot be read, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("Expected no attachment header on failure, got %q", cd)
	}
}

func TestRejectedFormKeepsValues(t *testing.T) {
	s, db := newTestServer(t)

	testCases := []struct {
		name    string
		target  string
		form    url.Values
		wantMsg string
		keep    string
	}{
		{
			name:    "non-numeric year",
			target:  "/exams",
			form:    url.Values{"year": {"二零二四"}, "completion_date": {"2024-03-02"}, "paper_name": {"国考模拟一"}},
			wantMsg: "年份必须是整数",
			keep:    "国考模拟一",
		},
		{
			name:    "non-numeric score",
			target:  "/exams",
			form:    url.Values{"year": {"2024"}, "completion_date": {"2024-03-02"}, "paper_name": {"国考模拟二"}, "score": {"高"}},
			wantMsg: "成绩必须是数字",
			keep:    "国考模拟二",
		},
		{
			name:    "missing answer",
			target:  "/questions",
			form:    url.Values{"module": {"数量关系"}, "source": {"模考"}, "content": {"鸡兔同笼"}},
			wantMsg: "正确答案不能为空",
			keep:    "鸡兔同笼",
		},
		{
			name:    "bad date",
			target:  "/essays",
			form:    url.Values{"year": {"2023"}, "province": {"浙江"}, "question_type": {"归纳概括"}, "source": {"A卷"}, "date": {"12/09"}, "content": {"概括问题"}, "completion_status": {"未完成"}},
			wantMsg: "日期的日期格式应为 YYYY-MM-DD",
			keep:    "概括问题",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tc.target, tc.form)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("Expected 422, got %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tc.wantMsg) {
				t.Errorf("Expected message %q in the page", tc.wantMsg)
			}
			if !strings.Contains(body, tc.keep) {
				t.Errorf("Expected submitted value %q to be kept", tc.keep)
			}
		})
	}

	papers, _ := db.ListExamPapers()
	essays, _ := db.ListEssayPapers()
	questions, _ := db.ListQuestions()
	if len(papers)+len(essays)+len(questions) != 0 {
		t.Error("Expected rejected forms to store nothing")
	}
}

func TestDuplicateIdiom(t *testing.T) {
	s, db := newTestServer(t)
	form := url.Values{"category": {"褒义"}, "name": {"画龙点睛"}, "meaning": {"点明要旨"}}

	if rec := do(t, s, http.MethodPost, "/idioms", form); rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected the first idiom to be saved, got %d", rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/idioms", form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 for a duplicate, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "成语已存在！") {
		t.Error("Expected the duplicate idiom message")
	}

	other := url.Values{"category": {"贬义"}, "name": {"画蛇添足"}, "meaning": {"多此一举"}}
	do(t, s, http.MethodPost, "/idioms", other)
	idioms, err := db.ListIdioms()
	if err != nil || len(idioms) != 2 {
		t.Fatalf("Expected two idioms, got %d (err %v)", len(idioms), err)
	}

	// Renaming onto an existing name is caught by the store.
	rec = do(t, s, http.MethodPost, "/idioms/"+itoa(idioms[0].ID), form)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "成语已存在！") {
		t.Errorf("Expected the duplicate message on update, got %d", rec.Code)
	}
}

func TestEditAndDelete(t *testing.T) {
	s, db := newTestServer(t)
	id, err := db.AddEssayPaper(&domain.EssayPaper{
		Year: 2023, Province: "浙江", QuestionType: "归纳概括", Source: "A卷",
		Date: "2023-12-09", Content: "概括问题", CompletionStatus: "未完成", EnteredOn: "2024-01-01",
	})
	if err != nil {
		t.Fatal(err)
	}
	path := "/essays/" + itoa(id)

	rec := do(t, s, http.MethodGet, path+"/edit", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "概括问题") {
		t.Fatalf("Expected a pre-filled edit form, got %d", rec.Code)
	}

	form := url.Values{
		"year": {"2024"}, "province": {"江苏"}, "question_type": {"综合分析"}, "source": {"B卷"},
		"date": {"2024-01-06"}, "content": {"分析观点"}, "completion_status": {"已完成"}, "entered_on": {"2024-01-07"},
	}
	rec = do(t, s, http.MethodPost, path, form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/essays" {
		t.Fatalf("Expected redirect to the review screen, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	got, err := db.EssayPaper(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Province != "江苏" || got.Year != 2024 || got.CompletionStatus != "已完成" {
		t.Errorf("Unexpected essay after update: %+v", got)
	}

	if rec := do(t, s, http.MethodPost, path+"/delete", nil); rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect after delete, got %d", rec.Code)
	}
	if got, _ := db.EssayPaper(id); got != nil {
		t.Error("Expected the essay to be deleted")
	}
	if rec := do(t, s, http.MethodPost, path+"/delete", nil); rec.Code != http.StatusSeeOther {
		t.Errorf("Expected deleting a missing record to succeed, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, path+"/edit", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing record, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/essays/abc/edit", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad ID, got %d", rec.Code)
	}
}

func TestSortToggle(t *testing.T) {
	s, db := newTestServer(t)
	for _, name := range []string{"守株待兔", "画蛇添足"} {
		if _, err := db.AddIdiom(&domain.Idiom{Category: "寓言", Name: name, Meaning: "m"}); err != nil {
			t.Fatal(err)
		}
	}

	testCases := []struct {
		order      string
		label      string
		next       string
		firstFirst bool
	}{
		{"asc", "ID排序: 正序", "order=desc", true},
		{"desc", "ID排序: 倒序", "order=random", false},
		{"random", "ID排序: 随机", "order=asc", true},
	}
	for _, tc := range testCases {
		t.Run(tc.order, func(t *testing.T) {
			body := do(t, s, http.MethodGet, "/idioms?order="+tc.order, nil).Body.String()
			if !strings.Contains(body, tc.label) {
				t.Errorf("Expected toggle label %q", tc.label)
			}
			if !strings.Contains(body, tc.next) {
				t.Errorf("Expected toggle link to %q", tc.next)
			}
			if tc.order == "random" {
				return
			}
			first := strings.Index(body, "守株待兔") < strings.Index(body, "画蛇添足")
			if first != tc.firstFirst {
				t.Errorf("Expected first-added row first = %v", tc.firstFirst)
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	s, db := newTestServer(t)
	if _, err := db.AddIdiom(&domain.Idiom{Category: "褒义", Name: "画龙点睛", Meaning: "点明要旨", EnteredOn: "2024-01-01"}); err != nil {
		t.Fatal(err)
	}

	rec := do(t, s, http.MethodGet, "/idioms/export?format=csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "idioms.csv") {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "ID,分类,名称") || !strings.Contains(rec.Body.String(), "画龙点睛") {
		t.Errorf("Unexpected export body %q", rec.Body.String())
	}
	if rec := do(t, s, http.MethodGet, "/idioms/export?format=pdf", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown format, got %d", rec.Code)
	}

	upload := "ID,分类,名称,语义,常用语境,固定搭配,例句,录入时间\n" +
		"1,贬义,画蛇添足,多此一举,,,,2024-01-02\n" +
		"2,褒义,画龙点睛,点明要旨,,,,2024-01-03\n" +
		"3,中性,按部就班,循序,,,,2024-01-04\n"
	rec = importFile(t, s, "/idioms/import", "idioms.csv", upload)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect after import, got %d", rec.Code)
	}
	msg := flashOf(t, rec)
	if !strings.Contains(msg, "第 2 行") || !strings.Contains(msg, "成语已存在！") || !strings.Contains(msg, "已导入 1 条") {
		t.Errorf("Unexpected import message %q", msg)
	}
	idioms, _ := db.ListIdioms()
	if len(idioms) != 2 {
		t.Errorf("Expected rows before the failure to stay, got %d idioms", len(idioms))
	}

	rec = importFile(t, s, "/idioms/import", "more.csv", "ID,分类,名称,语义,常用语境,固定搭配,例句,录入时间\n9,中性,按部就班,循序,,,,2024-01-04\n")
	if msg := flashOf(t, rec); msg != "成功导入 1 条记录" {
		t.Errorf("Unexpected import message %q", msg)
	}

	// The flash is shown once on the next page.
	req := httptest.NewRequest(http.MethodGet, "/idioms", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: url.QueryEscape("成功导入 1 条记录")})
	page := httptest.NewRecorder()
	s.ServeHTTP(page, req)
	if !strings.Contains(page.Body.String(), "成功导入 1 条记录") {
		t.Error("Expected the flash message on the review screen")
	}
}

func importFile(t *testing.T, s *Server, target, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirects(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/questions/new" {
		t.Errorf("Expected redirect to /questions/new, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := do(t, s, http.MethodGet, "/static/style.css", nil); rec.Code != http.StatusOK {
		t.Errorf("Expected the stylesheet, got %d", rec.Code)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
