// Package notify relays a summary of each new report to the protection officer.
// Every send is a single attempt; callers decide what a failure means.
package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"canal-denuncies/models"
)

var ErrDisabled = errors.New("notify: no email provider configured")

type Notifier interface {
	Notify(ctx context.Context, report models.Report) error
}

// Disabled is used when neither SendGrid nor SMTP is configured.
type Disabled struct{}

func (Disabled) Notify(context.Context, models.Report) error { return ErrDisabled }

// ParamKeys is the fixed field set of the notification, in display order.
var ParamKeys = []string{
	"from_name",
	"expedient_id",
	"data_hora",
	"informant_nom",
	"informant_dni",
	"informant_contacte",
	"victima_nom",
	"victima_edat",
	"victima_genere",
	"victima_categoria",
	"denunciat_nom",
	"denunciat_rol",
	"lloc",
	"tipus_violencia",
	"recurrent",
	"descripcio",
	"testimonis",
}

// Params flattens a report into the notification template fields.
func Params(r models.Report, fromName string, loc *time.Location) map[string]string {
	if loc == nil {
		loc = time.UTC
	}

	informantName := r.Informant.Name
	if r.Informant.IsAnonymous {
		informantName = "ANÒNIM"
	}

	types := make([]string, len(r.Facts.ViolenceType))
	for i, t := range r.Facts.ViolenceType {
		types[i] = string(t)
	}

	recurrent := "NO"
	if r.Facts.IsRecurring {
		recurrent = "SÍ"
	}

	return map[string]string{
		"from_name":          fromName,
		"expedient_id":       r.ID,
		"data_hora":          r.CreatedAt.In(loc).Format("02/01/2006 15:04:05"),
		"informant_nom":      informantName,
		"informant_dni":      orDefault(r.Informant.DNI, "N/A"),
		"informant_contacte": orDefault(r.Informant.Email, "N/A") + " / " + orDefault(r.Informant.Phone, "N/A"),
		"victima_nom":        r.Victim.Name,
		"victima_edat":       r.Victim.Age,
		"victima_genere":     string(r.Victim.Gender),
		"victima_categoria":  r.Victim.Category,
		"denunciat_nom":      r.AccusedNameOrDefault(),
		"denunciat_rol":      r.AccusedRelationOrDefault(),
		"lloc":               r.Facts.Location,
		"tipus_violencia":    strings.Join(types, ", "),
		"recurrent":          recurrent,
		"descripcio":         r.Facts.Description,
		"testimonis":         orDefault(r.Facts.Witnesses, "Cap indicat"),
	}
}

// Subject is the mail subject for a report.
func Subject(r models.Report) string {
	return "Nova denúncia - Expedient #" + r.ID
}

// PlainText renders the params as "key: value" lines in ParamKeys order.
func PlainText(params map[string]string) string {
	var b strings.Builder
	for _, k := range ParamKeys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(params[k])
		b.WriteString("\n")
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
