package classsession

import (
	"strconv"
	"strings"
	"time"

	"fitflow/internal/domain/validation"
)

// InputLayout is the value format of a datetime-local input.
const InputLayout = "2006-01-02T15:04"

// Parse messages for fields that cannot be read at all.
const (
	MsgInvalidStart    = "Start date is invalid"
	MsgInvalidEnd      = "End date is invalid"
	MsgInvalidInterval = "Interval must be a whole number of days"
	MsgInvalidPriority = "Priority must be High, Medium or Low"
)

// ClassForm is the raw submitted class form.
type ClassForm struct {
	TrainerName string
	Priority    string
	Interval    string
	Start       string
	End         string
}

// DefaultClassForm pre-fills the form from a calendar selection.
// A selection without an end gets a one hour class.
func DefaultClassForm(start, end time.Time) ClassForm {
	if end.IsZero() || !end.After(start) {
		end = start.Add(time.Hour)
	}
	return ClassForm{
		Priority: strconv.Itoa(int(PriorityModerate)),
		Interval: "0",
		Start:    start.Format(InputLayout),
		End:      end.Format(InputLayout),
	}
}

// Parse converts the form into a NewClass and collects every problem.
// Fields that cannot be parsed report a parse message and skip the rules
// that depend on them.
// PRE: loc is the viewer's timezone; now is in loc
// POST: Errors is empty when the class may be submitted
func (f ClassForm) Parse(loc *time.Location, now time.Time) (NewClass, validation.Errors) {
	class := NewClass{TrainerName: strings.TrimSpace(f.TrainerName)}
	var parseErrs validation.Errors

	if p, err := ParsePriority(f.Priority); err == nil {
		class.Priority = p
	} else {
		parseErrs.Add("priority", MsgInvalidPriority)
	}

	if s := strings.TrimSpace(f.Interval); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			class.Interval = n
		} else {
			parseErrs.Add("interval", MsgInvalidInterval)
		}
	}

	start, startErr := time.ParseInLocation(InputLayout, strings.TrimSpace(f.Start), loc)
	if startErr != nil {
		parseErrs.Add("startDate", MsgInvalidStart)
	}
	end, endErr := time.ParseInLocation(InputLayout, strings.TrimSpace(f.End), loc)
	if endErr != nil {
		parseErrs.Add("endDate", MsgInvalidEnd)
	}
	class.Start, class.End = start, end

	rules := class.Validate(now)
	var out validation.Errors
	for _, v := range rules.Violations() {
		switch {
		case v.Field == "startDate" && (startErr != nil || (endErr != nil && v.Message == MsgStartNotBeforeEnd)):
			continue
		case v.Field == "interval" && parseErrs.Field("interval") != "":
			continue
		}
		out.Add(v.Field, v.Message)
	}
	for _, v := range parseErrs.Violations() {
		out.Add(v.Field, v.Message)
	}
	return class, out
}
