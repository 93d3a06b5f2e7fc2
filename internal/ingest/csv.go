package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"postcurator/internal/models"
)

// Column headers of a scraped posts export.
const (
	colPostID     = "Post ID"
	colUserHandle = "User Handle"
	colUsername   = "Username"
	colDatetime   = "Datetime"
	colContent    = "Content"
	colReplies    = "Replies"
	colReposts    = "Reposts"
	colLikes      = "Likes"
	colViews      = "Views"
	colPostURL    = "Post URL"
)

// ErrMissingPostID is returned for a row without a Post ID.
var ErrMissingPostID = errors.New("missing Post ID")

// RowError locates a bad row. Line is the 1-based line the row starts on.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Reader decodes posts from a CSV export with a header row.
type Reader struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

// NewReader reads and indexes the header row.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("read header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	if _, ok := cols[colPostID]; !ok {
		return nil, fmt.Errorf("read header: no %q column", colPostID)
	}

	return &Reader{r: cr, cols: cols}, nil
}

// Next returns the next post, or io.EOF after the last row.
func (rd *Reader) Next() (*models.Post, error) {
	record, err := rd.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	rd.line, _ = rd.r.FieldPos(0)

	field := func(name string) string {
		i, ok := rd.cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	p := &models.Post{
		PostID:     field(colPostID),
		UserHandle: field(colUserHandle),
		Username:   field(colUsername),
		Datetime:   field(colDatetime),
		Content:    field(colContent),
		PostURL:    field(colPostURL),
	}
	if p.PostID == "" {
		return nil, &RowError{Line: rd.line, Err: ErrMissingPostID}
	}

	counts := []struct {
		col string
		dst *int
	}{
		{colReplies, &p.Replies},
		{colReposts, &p.Reposts},
		{colLikes, &p.Likes},
		{colViews, &p.Views},
	}
	for _, c := range counts {
		n, err := ParseCount(field(c.col))
		if err != nil {
			return nil, &RowError{Line: rd.line, Err: fmt.Errorf("%s: %w", c.col, err)}
		}
		*c.dst = n
	}

	return p, nil
}

// Line returns the line of the last row read.
func (rd *Reader) Line() int { return rd.line }

// ParseCount parses an engagement counter as shown by the scraper: "", "42",
// "1,204", "3.4K" or "1.2M". Empty means zero.
func ParseCount(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1e3
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1e6
		s = s[:len(s)-1]
	case 'b', 'B':
		mult = 1e9
		s = s[:len(s)-1]
	}

	if mult == 1 {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid count %q", s)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	v := f*mult + 0.5
	if v >= math.MaxInt64 {
		return 0, fmt.Errorf("count %q out of range", s)
	}
	return int(v), nil
}
