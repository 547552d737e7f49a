package service

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// inputValidator 校验服务层输入结构体上的 validate 标签
var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateInput 校验 input，并把第一个失败字段映射为对应的哨兵错误。
// known 的键为 "Field.tag" 或 "Field"。
func validateInput(input interface{}, known map[string]error) error {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}
	return MapFieldError(err, known)
}

// MapFieldError 将 validator 的字段错误转换为 known 中登记的错误，未登记时原样返回。
func MapFieldError(err error, known map[string]error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	if mapped, ok := known[fe.Field()+"."+fe.Tag()]; ok {
		return mapped
	}
	if mapped, ok := known[fe.Field()]; ok {
		return mapped
	}
	return err
}
