package web

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/conorfennell/examlog/internal/domain"
	"github.com/conorfennell/examlog/internal/exchange"
	"github.com/conorfennell/examlog/internal/storage"
)

// field is one input of an entity form.
type field struct {
	Name     string
	Label    string
	Kind     string // text, textarea, select, date or number
	Options  []string
	Required bool
}

// filter is one equality filter of a review screen, bound to a table column.
type filter struct {
	Col     int
	Label   string
	Kind    string
	Options []string
	options func(*storage.DB) ([]string, error)
}

// Param is the query parameter carrying the filter value.
func (f filter) Param() string {
	return "c" + strconv.Itoa(f.Col)
}

// entity ties one record type to its two screens.
type entity struct {
	Name        string
	InputTitle  string
	ReviewTitle string
	Fields      []field
	Filters     []filter
	Detail      bool

	table  exchange.Table
	load   func(db *storage.DB, id int64) (url.Values, error)
	save   func(db *storage.DB, id int64, v url.Values) error
	remove func(db *storage.DB, id int64) error
}

// records holds the typed repository calls and form codecs of one entity.
type records[T any] struct {
	get      func(*storage.DB, int64) (*T, error)
	add      func(*storage.DB, *T) (int64, error)
	update   func(*storage.DB, *T) error
	remove   func(*storage.DB, int64) error
	setID    func(*T, int64)
	encode   func(*T) url.Values
	decode   func(url.Values) (*T, error)
	checkNew func(*storage.DB, *T) error
}

// bind wires the typed calls into e. A save with id 0 adds a record;
// anything else replaces the record with that id.
func bind[T any](e *entity, r records[T]) *entity {
	e.load = func(db *storage.DB, id int64) (url.Values, error) {
		rec, err := r.get(db, id)
		if err != nil || rec == nil {
			return nil, err
		}
		return r.encode(rec), nil
	}
	e.save = func(db *storage.DB, id int64, v url.Values) error {
		rec, err := r.decode(v)
		if err != nil {
			return err
		}
		if err := domain.Validate(rec); err != nil {
			return err
		}
		if id != 0 {
			r.setID(rec, id)
			return r.update(db, rec)
		}
		if r.checkNew != nil {
			if err := r.checkNew(db, rec); err != nil {
				return err
			}
		}
		_, err = r.add(db, rec)
		return err
	}
	e.remove = r.remove
	return e
}

// formError is a submitted value that could not be converted.
type formError struct {
	msg string
}

func (e *formError) Error() string {
	return e.msg
}

var errIdiomExists = errors.New("成语已存在！")

// userMessage turns the errors a user can fix into the text shown on the
// page. It reports false for anything else.
func userMessage(err error) (string, bool) {
	var fe *formError
	var invalid *domain.InvalidError
	var rowErr *exchange.RowError
	switch {
	case errors.As(err, &rowErr):
		inner, ok := userMessage(rowErr.Err)
		if !ok {
			inner = rowErr.Err.Error()
		}
		return fmt.Sprintf("第 %d 行导入失败: %s", rowErr.Row, inner), true
	case errors.As(err, &fe):
		return fe.msg, true
	case errors.As(err, &invalid):
		return strings.Join(invalid.Problems, "；"), true
	case errors.Is(err, errIdiomExists), errors.Is(err, storage.ErrDuplicateIdiom):
		return errIdiomExists.Error(), true
	}
	return "", false
}

func text(v url.Values, name string) string {
	return strings.TrimSpace(v.Get(name))
}

// intValue reads an integer input. A blank input is zero.
func intValue(v url.Values, name, label string) (int, error) {
	s := text(v, name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &formError{msg: label + "必须是整数"}
	}
	return n, nil
}

func floatValue(v url.Values, name, label string) (float64, error) {
	s := text(v, name)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &formError{msg: label + "必须是数字"}
	}
	return f, nil
}
