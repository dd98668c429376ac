package services

import (
	"github.com/go-playground/validator/v10"
	"github.com/wahlware/wahlhost/internal/database"
	"github.com/wahlware/wahlhost/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput runs struct validation before any side effect so a failure
// always means nothing happened.
func checkInput(in any) *types.AppError {
	if err := validate.Struct(in); err != nil {
		return types.NewAppError(types.CodeInputType, err)
	}
	return nil
}

func dbError(err error) *types.AppError {
	if database.IsRecordNotFoundErr(err) {
		return types.NewAppError(types.CodeNotFound, database.ErrNotFound)
	}
	return types.Internal(err)
}
