package task

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tesina/core"
)

var (
	dateWindowTag  = "datewindow"
	dateWindowText = "end date cannot precede start date"

	timeWindowTag  = "timewindow"
	timeWindowText = "end time cannot precede start time"
)

// InitValidators registers the task package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(taskStructValidation, NewTask{})
	validate.RegisterStructValidation(taskStructValidation, UpdateTask{})
	core.RegisterCustomTranslation(validate, translator, dateWindowTag, dateWindowText)
	core.RegisterCustomTranslation(validate, translator, timeWindowTag, timeWindowText)
}

// taskStructValidation checks the sanity of both submission windows:
// a window's end may not precede its start.
func taskStructValidation(sl validator.StructLevel) {
	switch t := sl.Current().Interface().(type) {
	case NewTask:
		if t.EndDate.Before(t.StartDate) {
			sl.ReportError(t.EndDate, "end_date", "EndDate", dateWindowTag, "")
		}
		if t.StartTime != "" && t.EndTime != "" && t.EndTime < t.StartTime {
			sl.ReportError(t.EndTime, "end_time", "EndTime", timeWindowTag, "")
		}
	case UpdateTask:
		if !t.StartDate.IsZero() && !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
			sl.ReportError(t.EndDate, "end_date", "EndDate", dateWindowTag, "")
		}
		if t.StartTime != "" && t.EndTime != "" && t.EndTime < t.StartTime {
			sl.ReportError(t.EndTime, "end_time", "EndTime", timeWindowTag, "")
		}
	}
}
