package validate

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Add appends ef when it is non-nil.
func (e Errs) Add(ef *ErrField) Errs {
	if ef == nil {
		return e
	}
	return append(e, *ef)
}

func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func MinInt(field string, v, min int64) *ErrField {
	if v < min {
		return &ErrField{Field: field, Msg: "must be >= " + strconv.FormatInt(min, 10)}
	}
	return nil
}

// ID parses a path id and requires it to be a positive integer.
func ID(field, raw string) (int64, *ErrField) {
	if ef := Required(field, raw); ef != nil {
		return 0, ef
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ErrField{Field: field, Msg: "must be an integer"}
	}
	return id, MinInt(field, id, 1)
}

// Amount decodes a request body holding a bare JSON integer such as `1000`.
// The sign is not checked here; the ledger owns amount rules.
func Amount(body io.Reader) (int64, *ErrField) {
	var amount int64
	dec := json.NewDecoder(body)
	if err := dec.Decode(&amount); err != nil {
		return 0, &ErrField{Field: "amount", Msg: "must be an integer"}
	}
	if dec.More() {
		return 0, &ErrField{Field: "amount", Msg: "unexpected trailing data"}
	}
	return amount, nil
}
