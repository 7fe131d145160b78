package http

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/scolardf/devconnector/pkg/apperror"
)

const (
	ginContextKeyRequest = "boundRequest"

	msgInvalidValue = "Invalid value"
)

// BindJSON decodes the request body into T and checks its binding rules.
// A rule failure is reported under the field's json name with the text of
// its msg tag. The bound value is read back with BoundRequest.
func BindJSON[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		err := c.ShouldBindJSON(&req)
		if errors.Is(err, io.EOF) {
			// empty body: still report every missing required field
			err = binding.Validator.ValidateStruct(&req)
		}
		if err != nil {
			_ = c.Error(bindError[T](err))
			c.Abort()
			return
		}
		c.Set(ginContextKeyRequest, &req)
		c.Next()
	}
}

func BoundRequest[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(ginContextKeyRequest)
	if !ok {
		return nil, false
	}
	req, ok := v.(*T)
	return req, ok
}

func bindError[T any](err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		t := reflect.TypeOf((*T)(nil)).Elem()
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError(t, fe))
		}
		return apperror.NewValidation(fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.NewValidation(apperror.BodyField(typeErr.Field, msgInvalidValue))
	}
	return apperror.NewInvalidInput("request body is not valid JSON", err)
}

func fieldError(t reflect.Type, fe validator.FieldError) apperror.FieldError {
	param, msg := fe.Field(), fe.Error()
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" && name != "-" {
			param = name
		}
		if m := sf.Tag.Get("msg"); m != "" {
			msg = m
		}
	}
	return apperror.BodyField(param, msg)
}
