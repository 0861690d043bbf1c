package shell

import (
	"context"
	"errors"
	"fmt"

	"canal-denuncies/classify"
	"canal-denuncies/metrics"
	"canal-denuncies/models"
	"canal-denuncies/notify"
	"canal-denuncies/wizard"

	"github.com/apex/log"
)

const (
	msgSubmitted     = "Denúncia enviada correctament. Guarda el codi de seguiment."
	msgPersistFailed = "Error crític: no s'ha pogut desar la denúncia al núvol. Torna-ho a provar."
	msgNotifyFailed  = "La denúncia s'ha desat, però l'avís per correu podria haver fallat."
	msgUploading     = "Espera que acabin de processar-se els fitxers adjunts."
)

// FormState is what the report view renders.
type FormState struct {
	Step          int             `json:"step"`
	Data          models.FormData `json:"data"`
	IsAnonymous   bool            `json:"isAnonymous"`
	GDPRAccepted  bool            `json:"gdprAccepted"`
	StepValid     bool            `json:"stepValid"`
	ShowErrors    bool            `json:"showErrors"`
	Missing       []string        `json:"missing"`
	Uploading     bool            `json:"uploading"`
	SubmittedCode string          `json:"submittedCode,omitempty"`
}

// FormUpdate carries the editable part of the form.
type FormUpdate struct {
	Data         models.FormData `json:"data"`
	IsAnonymous  bool            `json:"isAnonymous"`
	GDPRAccepted bool            `json:"gdprAccepted"`
}

func formState(f *wizard.Form, code string) FormState {
	st := FormState{
		Step:          f.Step(),
		Data:          f.Data(),
		IsAnonymous:   f.Anonymous(),
		GDPRAccepted:  f.Consent(),
		StepValid:     f.StepValid(),
		ShowErrors:    f.ShowErrors(),
		Missing:       []string{},
		Uploading:     f.Uploading(),
		SubmittedCode: code,
	}
	if f.ShowErrors() {
		if missing := f.MissingFields(); missing != nil {
			st.Missing = missing
		}
	}
	return st
}

// openForm resumes the open form, or starts one seeded from the stored draft.
// Caller holds s.mu.
func (a *App) openForm(s *Session) *wizard.Form {
	if s.form != nil && !s.form.Submitted() {
		return s.form
	}
	var draft *models.Draft
	if d, ok := a.deps.Drafts.Load(s.id); ok {
		draft = &d
	}
	id := s.id
	s.form = wizard.New(wizard.Options{
		Entity:      a.cfg.Entity,
		Now:         a.now,
		OnSaveDraft: func(d models.Draft) { a.deps.Drafts.Save(id, d) },
	}, draft)
	return s.form
}

// Form returns the report form, opening it if needed.
func (a *App) Form(clientID string) FormState {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewReport
	return formState(a.openForm(s), "")
}

// UpdateForm applies field edits. Every change is autosaved as the client's draft.
func (a *App) UpdateForm(clientID string, u FormUpdate) FormState {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := a.openForm(s)
	f.SetData(u.Data)
	if f.Anonymous() != u.IsAnonymous {
		f.SetAnonymous(u.IsAnonymous)
	}
	if f.Consent() != u.GDPRAccepted {
		f.SetConsent(u.GDPRAccepted)
	}
	return formState(f, "")
}

// Next advances the form. On the last step it runs the submit pipeline.
func (a *App) Next(ctx context.Context, clientID string) (FormState, error) {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := a.openForm(s)

	outcome, report, err := f.Next()
	if errors.Is(err, wizard.ErrUploading) {
		s.toast(ToastInfo, msgUploading)
		return formState(f, ""), err
	}
	if outcome != wizard.Submitted {
		return formState(f, ""), nil
	}

	if err := a.submit(ctx, s, *report); err != nil {
		// The report stays in the local cache; the user may retry from the draft.
		s.form = nil
		f = a.openForm(s)
		return formState(f, ""), err
	}
	return formState(f, report.ID), nil
}

// submit persists, notifies and then confirms. Caller holds s.mu.
func (a *App) submit(ctx context.Context, s *Session, report models.Report) error {
	switch {
	case a.deps.Classifier == nil:
		metrics.ClassificationsTotal.WithLabelValues("disabled").Inc()
	case classify.Enrich(ctx, a.deps.Classifier, &report):
		metrics.ClassificationsTotal.WithLabelValues("ok").Inc()
	default:
		metrics.ClassificationsTotal.WithLabelValues("error").Inc()
	}

	err := a.deps.Store.Append(ctx, report)
	metrics.SubmissionsTotal.WithLabelValues(metrics.Result(err)).Inc()
	if s.board != nil {
		s.board.Replace(append([]models.Report{report}, s.board.Reports()...))
	}
	if err != nil {
		log.WithError(err).WithField("report", report.ID).Error("persist report")
		s.cloud = CloudError
		s.toast(ToastError, msgPersistFailed)
		return fmt.Errorf("submit %s: %w", report.ID, err)
	}

	nerr := a.deps.Notifier.Notify(ctx, report)
	switch {
	case errors.Is(nerr, notify.ErrDisabled):
		metrics.NotificationsTotal.WithLabelValues("disabled").Inc()
	case nerr != nil:
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		log.WithError(nerr).WithField("report", report.ID).Warn("notification failed")
		s.toast(ToastInfo, msgNotifyFailed)
	default:
		metrics.NotificationsTotal.WithLabelValues("ok").Inc()
	}

	a.deps.Drafts.Clear(s.id)
	s.lastCode = report.ID
	s.view = ViewSubmitted
	s.toast(ToastSuccess, msgSubmitted)
	log.WithField("report", report.ID).Info("report submitted")
	return nil
}

// Back moves the form one step back. Going back from the first step cancels.
func (a *App) Back(clientID string) (FormState, bool) {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := a.openForm(s)
	if f.Back() {
		return formState(f, ""), true
	}
	a.cancel(s)
	return FormState{}, false
}

// Cancel drops the form and its draft and returns home.
func (a *App) Cancel(clientID string) State {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	a.cancel(s)
	return a.state(s)
}

func (a *App) cancel(s *Session) {
	a.deps.Drafts.Clear(s.id)
	s.form = nil
	s.view = ViewHome
}

// AddAttachments encodes the files outside the session lock. While they are being
// processed the form refuses to advance.
func (a *App) AddAttachments(ctx context.Context, clientID string, files []wizard.File) (FormState, []error) {
	s := a.session(clientID)
	s.mu.Lock()
	f := a.openForm(s)
	f.BeginUpload()
	s.mu.Unlock()

	encoded, errs := wizard.ProcessFiles(ctx, a.deps.Encoder, files, a.cfg.AttachmentMaxBytes)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form != f {
		// Cancelled meanwhile; the batch is discarded.
		f.EndUpload(nil)
		return formState(a.openForm(s), ""), errs
	}
	f.EndUpload(encoded)
	for _, err := range errs {
		s.toast(ToastError, err.Error())
	}
	return formState(f, ""), errs
}

func (a *App) RemoveAttachment(clientID string, index int) (FormState, error) {
	s := a.session(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := a.openForm(s)
	if err := f.RemoveAttachment(index); err != nil {
		return formState(f, ""), err
	}
	return formState(f, ""), nil
}
