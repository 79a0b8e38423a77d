package validate

import (
	"errors"
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"sync"
)

type Validate struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	defaultOnce     sync.Once
	defaultValidate *Validate
)

// InitValidates builds the validator and registers the default messages for local.
func (v *Validate) InitValidates(localTrans locales.Translator, local string) {
	uni := ut.New(localTrans, localTrans)
	v.trans, _ = uni.GetTranslator(local)

	v.validate = validator.New()

	err := en_translations.RegisterDefaultTranslations(v.validate, v.trans)
	if err != nil {
		panic(err)
	}
}

// HandleError validates r and returns the first failure. m overrides the
// message for a "Field.tag" key.
func (v *Validate) HandleError(r interface{}, m map[string]string) error {
	err := v.validate.Struct(r)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	for _, e := range errs {
		if msg, ok := m[e.Field()+"."+e.Tag()]; ok {
			return errors.New(msg)
		}
		return errors.New(e.Translate(v.trans))
	}
	return nil
}

func New(r interface{}, m map[string]string, localTrans locales.Translator, local string) error {
	v := Validate{}
	v.InitValidates(localTrans, local)
	return v.HandleError(r, m)
}

// Run validates with the shared english validator.
func Run(r interface{}, m map[string]string) error {
	defaultOnce.Do(func() {
		defaultValidate = &Validate{}
		defaultValidate.InitValidates(en.New(), "en")
	})
	return defaultValidate.HandleError(r, m)
}
