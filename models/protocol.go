package models

type Indicator struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ProtocolInfo struct {
	Summary      string      `json:"summary"`
	Indicators   []Indicator `json:"indicators"`
	FAQ          []FAQ       `json:"faq"`
	HelpLine     string      `json:"helpLine"`
	EmergencyTip string      `json:"emergencyTip"`
}

var Indicators = []Indicator{
	{
		Category: "Senyals Físics Específics",
		Items: []string{
			"Molèsties evidents en genitals",
			"Dificultats per a caminar o asseure's",
			"Senyals físics de cops o empentes",
		},
	},
	{
		Category: "Comportaments Associats",
		Items: []string{
			"Ús d'informació inusual per a l'edat sobre temes sexuals",
			"Sensibilitat extrema al contacte físic",
			"Atacs d'ira injustificats",
			"Por de quedar-se sol amb una persona concreta",
			"Descens brusc del rendiment esportiu",
		},
	},
	{
		Category: "Indicadors Inespecífics",
		Items: []string{
			"Canvis notoris en hàbits alimentaris",
			"Incontinència urinària o fecal sobtada",
			"Desinterès general per l'activitat",
			"Tendència a aïllar-se del grup",
		},
	},
}

var Protocol = ProtocolInfo{
	Summary: "El protocol LOPIVI de Protecció Integral a la Infància i l'Adolescència defineix els passos a seguir davant de sospites o evidències de violència.",
	Indicators: Indicators,
	FAQ: []FAQ{
		{
			Question: "Puc denunciar de forma anònima?",
			Answer:   "Sí. Si tries la modalitat anònima no es demanen dades de contacte personals.",
		},
		{
			Question: "Què passa després d'enviar?",
			Answer:   "El Delegat de Protecció obre un expedient informatiu immediat i pots seguir-ne l'estat amb el codi de seguiment.",
		},
		{
			Question: "Com es protegeix la víctima?",
			Answer:   "S'apliquen mesures cautelars immediates per allunyar el presumpte agressor i s'ofereix suport psicològic i emocional.",
		},
	},
	HelpLine:     "116 111 - Telèfon d'atenció a la infància i l'adolescència",
	EmergencyTip: "Si creus que la situació requereix una intervenció policial o mèdica immediata, truca al 112.",
}
