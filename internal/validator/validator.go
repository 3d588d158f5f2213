package validator

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

var (
	trans ut.Translator
	once  sync.Once
)

// Setup switches Gin's binding engine to `validate` tags and registers English messages keyed by
// the JSON or query name of each field. Safe to call more than once.
func Setup() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}
		v.SetTagName("validate")
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	})
}

// TranslateErrors maps a binding error to field messages. Errors that are not validation
// failures, such as malformed JSON, are reported under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind decodes and validates the JSON body into dst. An empty body is validated as the zero value.
func Bind(c *gin.Context, dst interface{}) error {
	Setup()
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(dst)
	}
	return bindError(err)
}

// BindQuery decodes and validates the query string into dst.
func BindQuery(c *gin.Context, dst interface{}) error {
	Setup()
	return bindError(c.ShouldBindQuery(dst))
}

func bindError(err error) error {
	if err == nil {
		return nil
	}
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid request payload"), TranslateErrors(err))
}
