package task

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/streamlineer/streamlineer/core"
)

var (
	priorityTag  = "taskpriority"
	priorityText = "invalid task priority"

	statusTag  = "taskstatus"
	statusText = "invalid task status"
)

// InitValidators registers task-specific validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(priorityTag, priorityValidation)
	core.RegisterCustomTranslation(validate, translator, priorityTag, priorityText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func priorityValidation(fl validator.FieldLevel) bool {
	priority := fl.Field().String()
	for _, p := range Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

func statusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
