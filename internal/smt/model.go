package smt

import (
	"fmt"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
)

// Model-side value extraction. All helpers evaluate with model
// completion, so terms the model leaves unconstrained still get a value.

func TermHolds(model *yices2.ModelT, term yices2.TermT) (bool, error) {
	code := yices2.FormulaTrueInModel(*model, term)
	if code < 0 {
		return false, fmt.Errorf("%s", yices2.ErrorString())
	}
	return code == 1, nil
}

func GetInt64Value(model *yices2.ModelT, term yices2.TermT) (int64, error) {
	var val int64
	errcode := yices2.GetInt64Value(*model, term, &val)
	if errcode != 0 {
		return 0, fmt.Errorf("%s", yices2.ErrorString())
	}
	return val, nil
}

// GetScalarValue resolves a term of scalar type to the index of the
// scalar constant it denotes in the model.
func GetScalarValue(model *yices2.ModelT, term yices2.TermT) (int32, error) {
	var val int32
	errcode := yices2.GetScalarValue(*model, term, &val)
	if errcode != 0 {
		return 0, fmt.Errorf("%s", yices2.ErrorString())
	}
	return val, nil
}
