package site

import (
	"time"

	"github.com/Zachkp/zach-dev/internal/contact"
	"github.com/Zachkp/zach-dev/internal/presenter"
)

// fieldView is one input of the rendered contact form.
type fieldView struct {
	Name      string
	Label     string
	Type      string
	Value     string
	Error     string
	MaxLen    int
	Multiline bool
}

// formView is what the contact form templates render.
type formView struct {
	presenter.View
	Fields  []fieldView
	DelayMs int64
}

var fieldMeta = map[contact.Field]fieldView{
	contact.FieldName:    {Label: "Name", Type: "text", MaxLen: contact.NameMaxLen},
	contact.FieldEmail:   {Label: "Email", Type: "email", MaxLen: contact.EmailMaxLen},
	contact.FieldSubject: {Label: "Subject", Type: "text", MaxLen: contact.SubjectMaxLen},
	contact.FieldMessage: {Label: "Message", Multiline: true, MaxLen: contact.MessageMaxLen},
}

func newFormView(v presenter.View, delay time.Duration) formView {
	fields := make([]fieldView, 0, len(contact.Fields))
	for _, f := range contact.Fields {
		fv := fieldMeta[f]
		fv.Name = string(f)
		fv.Value = v.Input.Value(f)
		fv.Error = v.Errors.Get(f)
		fields = append(fields, fv)
	}
	return formView{View: v, Fields: fields, DelayMs: delay.Milliseconds()}
}

func blankForm(delay time.Duration) formView {
	return newFormView(presenter.View{State: presenter.Editing}, delay)
}
