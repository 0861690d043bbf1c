package models

type ViolenceType string

const (
	ViolencePhysical       ViolenceType = "Violència Física"
	ViolencePsychological  ViolenceType = "Violència Psicològica/Emocional"
	ViolenceSexual         ViolenceType = "Violència Sexual"
	ViolenceBullying       ViolenceType = "Assetjament (Bullying)"
	ViolenceCyber          ViolenceType = "Ciberassetjament"
	ViolenceNeglect        ViolenceType = "Negligència/Abandonament"
	ViolenceAuthority      ViolenceType = "Abús d'Autoritat"
	ViolenceDiscrimination ViolenceType = "Discriminació/LGTBIfòbia"
	ViolenceOther          ViolenceType = "Altres"
)

var ViolenceTypes = []ViolenceType{
	ViolencePhysical,
	ViolencePsychological,
	ViolenceSexual,
	ViolenceBullying,
	ViolenceCyber,
	ViolenceNeglect,
	ViolenceAuthority,
	ViolenceDiscrimination,
	ViolenceOther,
}

func (v ViolenceType) Valid() bool {
	for _, t := range ViolenceTypes {
		if v == t {
			return true
		}
	}
	return false
}

type ReporterType string

const (
	ReporterVictim    ReporterType = "La mateixa víctima (Menor)"
	ReporterParent    ReporterType = "Pare / Mare / Tutor"
	ReporterCoach     ReporterType = "Staff Tècnic / Entrenador"
	ReporterPlayer    ReporterType = "Company / Altre jugador"
	ReporterDirector  ReporterType = "Directiu / Coordinador"
	ReporterWitness   ReporterType = "Testimoni extern"
	ReporterOtherType ReporterType = "Altre"
)

var ReporterTypes = []ReporterType{
	ReporterVictim, ReporterParent, ReporterCoach, ReporterPlayer,
	ReporterDirector, ReporterWitness, ReporterOtherType,
}

type Gender string

const (
	GenderMale        Gender = "Home"
	GenderFemale      Gender = "Dona"
	GenderOther       Gender = "Altre"
	GenderUnspecified Gender = "No especificat"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderUnspecified}

// Categories are the club's age groups.
var Categories = []string{
	"Escoleta", "Benjamí", "Aleví", "Infantil", "Cadet", "Juvenil", "Sènior", "Màster", "Altre",
}

var AccusedRoles = []string{
	"Entrenador/a", "Delegat/da", "Jugador/a", "Familiar", "Públic", "Staff", "Àrbitre", "Altre",
}

var Locations = []string{
	"Poliesportiu Municipal de Molins",
	"Pavelló Municipal (La Granja)",
	"Pista Escola Estel",
	"Pista Escola Madorell",
	"Bus / Desplaçament oficial",
	"Pavelló rival (partit fora)",
	"Gimnàs / Vestidors",
	"Zones comunes (bar, passadissos)",
	"Altre",
}
