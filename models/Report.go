package models

import "time"

type Status string

const (
	StatusPending    Status = "Pendent"
	StatusInProgress Status = "En Procés"
	StatusResolved   Status = "Resolt"
	StatusUrgent     Status = "Urgència"
)

// Statuses lists every status in the order the dashboard shows them.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusUrgent}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Informant struct {
	Name        string       `json:"name" bson:"name"`
	DNI         string       `json:"dni,omitempty" bson:"dni,omitempty"`
	Email       string       `json:"email" bson:"email"`
	Phone       string       `json:"phone" bson:"phone"`
	Type        ReporterType `json:"type" bson:"type"`
	IsAnonymous bool         `json:"isAnonymous" bson:"isAnonymous"`
}

type Victim struct {
	Name     string `json:"name" bson:"name"`
	Age      string `json:"age" bson:"age"`
	Gender   Gender `json:"gender" bson:"gender"`
	Category string `json:"category" bson:"category"`
	Entity   string `json:"entity" bson:"entity"`
}

type Involved struct {
	AccusedName     string `json:"accusedName" bson:"accusedName"`
	AccusedRelation string `json:"accusedRelation" bson:"accusedRelation"`
}

type Facts struct {
	Date            string         `json:"date" bson:"date"`
	Time            string         `json:"time" bson:"time"`
	Location        string         `json:"location" bson:"location"`
	ViolenceType    []ViolenceType `json:"violenceType" bson:"violenceType"`
	Description     string         `json:"description" bson:"description"`
	Witnesses       string         `json:"witnesses" bson:"witnesses"`
	IsRecurring     bool           `json:"isRecurring" bson:"isRecurring"`
	IsKnownByOthers bool           `json:"isKnownByOthers" bson:"isKnownByOthers"`
}

type Severity string

const (
	SeverityMild    Severity = "Lleu"
	SeveritySerious Severity = "Greu"
)

type AIAnalysis struct {
	SuggestedTypes   []string `json:"suggestedTypes" bson:"suggestedTypes"`
	Severity         Severity `json:"severity" bson:"severity"`
	Reasoning        string   `json:"reasoning" bson:"reasoning"`
	ImmediateActions []string `json:"immediateActions" bson:"immediateActions"`
}

// Report is one submitted incident. ID doubles as the public tracking code.
type Report struct {
	ID             string      `json:"id" bson:"_id"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	Informant      Informant   `json:"informant" bson:"informant"`
	Victim         Victim      `json:"victim" bson:"victim"`
	Involved       Involved    `json:"involved" bson:"involved"`
	Facts          Facts       `json:"facts" bson:"facts"`
	AIAnalysis     *AIAnalysis `json:"aiAnalysis,omitempty" bson:"aiAnalysis,omitempty"`
	Attachments    []string    `json:"attachments" bson:"attachments"`
	Status         Status      `json:"status" bson:"status"`
	Observations   string      `json:"observations,omitempty" bson:"observations,omitempty"`
	GDPRAccepted   bool        `json:"gdprAccepted" bson:"gdprAccepted"`
	RequestMeeting bool        `json:"requestMeeting" bson:"requestMeeting"`
}

// AccusedNameOrDefault renders a missing accused name the way reports print it.
func (r Report) AccusedNameOrDefault() string {
	if r.Involved.AccusedName == "" {
		return "No identificat"
	}
	return r.Involved.AccusedName
}

func (r Report) AccusedRelationOrDefault() string {
	if r.Involved.AccusedRelation == "" {
		return "No especificat"
	}
	return r.Involved.AccusedRelation
}
