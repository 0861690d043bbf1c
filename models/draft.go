package models

import "time"

type InformantInput struct {
	Name  string       `json:"name"`
	DNI   string       `json:"dni"`
	Email string       `json:"email"`
	Phone string       `json:"phone"`
	Type  ReporterType `json:"type"`
}

type InvolvedInput struct {
	VictimName      string `json:"victimName"`
	VictimAge       string `json:"victimAge"`
	VictimGender    Gender `json:"victimGender"`
	VictimCategory  string `json:"victimCategory"`
	AccusedName     string `json:"accusedName"`
	AccusedRelation string `json:"accusedRelation"`
}

type FactsInput struct {
	Date            string         `json:"date"`
	Time            string         `json:"time"`
	Location        string         `json:"location"`
	ViolenceTypes   []ViolenceType `json:"violenceTypes"`
	Description     string         `json:"description"`
	Witnesses       string         `json:"witnesses"`
	IsRecurring     bool           `json:"isRecurring"`
	IsKnownByOthers bool           `json:"isKnownByOthers"`
}

// FormData is the working copy of the report form.
type FormData struct {
	Informant      InformantInput `json:"informant"`
	Involved       InvolvedInput  `json:"involved"`
	Facts          FactsInput     `json:"facts"`
	Attachments    []string       `json:"attachments"`
	RequestMeeting bool           `json:"requestMeeting"`
}

// Draft is the autosaved, unsubmitted state of a form. It never reaches the remote store.
type Draft struct {
	FormData     FormData  `json:"formData"`
	Step         int       `json:"step"`
	IsAnonymous  bool      `json:"isAnonymous"`
	GDPRAccepted bool      `json:"gdprAccepted"`
	SavedAt      time.Time `json:"savedAt"`
}

// NewFormData returns an empty form dated today.
func NewFormData(now time.Time) FormData {
	return FormData{
		Informant: InformantInput{Type: ReporterVictim},
		Involved:  InvolvedInput{VictimGender: GenderUnspecified},
		Facts: FactsInput{
			Date:          now.Format("2006-01-02"),
			ViolenceTypes: []ViolenceType{},
		},
		Attachments: []string{},
	}
}
