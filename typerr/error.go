package typerr

import (
	"fmt"
	"log/slog"
	"slices"
)

// Errors accumulates type errors. A nil *Errors is a valid, empty list.
type Errors struct {
	errs []Error
}

func (r *Errors) With(err ...Error) *Errors {
	if r == nil {
		return &Errors{errs: err}
	}
	r.errs = append(r.errs, err...)
	return r
}

func (r *Errors) Merge(err *Errors) *Errors {
	if r == nil {
		return err
	}
	if err == nil {
		return r
	}
	if len(err.errs) == 0 {
		return r
	}
	return r.With(err.errs...)
}

func (r *Errors) Errors() []Error {
	if r == nil {
		return nil
	}
	return r.errs
}

func (r *Errors) Len() int {
	if r == nil {
		return 0
	}
	return len(r.errs)
}

func (r *Errors) HasError() bool {
	return r.Len() > 0
}

// HasCode reports whether any accumulated error carries code
func (r *Errors) HasCode(code ErrCode) bool {
	return slices.ContainsFunc(r.Errors(), func(e Error) bool { return e.Code() == code })
}

func (r *Errors) LogValue() slog.Value {
	var vals []slog.Attr
	for i, v := range r.Errors() {
		vals = append(vals, slog.Attr{
			Key: fmt.Sprint("e", i),
			Value: slog.GroupValue(
				slog.Attr{
					Key:   "msg",
					Value: slog.StringValue(FormatWithCode(v)),
				},
				slog.Attr{
					Key:   "loc",
					Value: slog.StringValue(v.Loc().String()),
				},
			),
		})
	}
	return slog.GroupValue(vals...)
}
