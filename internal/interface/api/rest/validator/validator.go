package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	playground "github.com/go-playground/validator/v10"
	ptbrTranslations "github.com/go-playground/validator/v10/translations/pt_BR"

	"agri-registry-api/internal/interface/api/rest/dto/farmer"
)

var (
	validate   *playground.Validate
	translator ut.Translator
)

var fieldNames = map[string]string{
	"fullName":  "Nome completo",
	"cpf":       "CPF",
	"birthDate": "Data de nascimento",
	"phone":     "Telefone",
}

func init() {
	validate = playground.New(playground.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	ptBR := pt_BR.New()
	uni := ut.New(ptBR, ptBR)

	var found bool
	translator, found = uni.GetTranslator("pt_BR")
	if !found {
		panic("translator pt_BR not found")
	}
	if err := ptbrTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("isodate", isoDate); err != nil {
		panic(err)
	}
	validate.RegisterCustomTypeFunc(nullableString, farmer.NullableString{})

	addTranslation("required", "{0} é obrigatório")
	addTranslation("max", "{0} deve ter no máximo {1} caracteres")
	addTranslation("isodate", "{0} deve estar no formato AAAA-MM-DD")
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// blank counts as absent
func isoDate(fl playground.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	_, err := farmer.ParseDate(s)
	return err == nil
}

// absent and null both count as empty
func nullableString(v reflect.Value) any {
	n, ok := v.Interface().(farmer.NullableString)
	if !ok || n.Value == nil {
		return ""
	}
	return *n.Value
}

func addTranslation(tag, text string) {
	_ = validate.RegisterTranslation(tag, translator, func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}, func(t ut.Translator, fe playground.FieldError) string {
		msg, _ := t.T(tag, displayName(fe.Field()), fe.Param())
		return msg
	})
}

func displayName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}

// ValidateStruct returns field -> message, or nil when s is valid.
func ValidateStruct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs playground.ValidationErrors
	if !errors.As(err, &vErrs) {
		return map[string]string{"body": err.Error()}
	}

	errs := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		errs[fe.Field()] = fe.Translate(translator)
	}

	return errs
}

func ValidateCreate(r farmer.CreateRequest) map[string]string {
	errs := ValidateStruct(r)
	if strings.TrimSpace(r.FullName) == "" {
		if errs == nil {
			errs = make(map[string]string)
		}
		if _, ok := errs["fullName"]; !ok {
			errs["fullName"] = displayName("fullName") + " é obrigatório"
		}
	}

	return errs
}

func ValidateUpdate(r farmer.UpdateRequest) map[string]string {
	return ValidateStruct(r)
}

// ParseActive reads the active query filter: "true"/"1" mean true,
// any other non-empty value false, empty means no filter.
func ParseActive(q string) *bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	v := strings.EqualFold(q, "true") || q == "1"
	return &v
}
