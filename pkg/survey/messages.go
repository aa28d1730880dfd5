package survey

// Callback tokens carried by inline buttons.
const (
	TokenOperationPreverifica = "op:preverifica"
	TokenOperationAttivazione = "op:attivazione"
	TokenCompanyPrefix        = "company:"
	TokenLocationYes          = "loc:yes"
	TokenLocationNo           = "loc:no"
)

// User-facing messages.
const (
	MsgChooseOperation  = "👋 Ciao! Che operazione stai effettuando?"
	MsgChooseCompany    = "Per quale azienda stai lavorando?"
	MsgAskClientName    = "Inserisci il nome del cliente:"
	MsgAskSignal        = "Inserisci il valore del segnale (numero intero da 1 a 98):"
	MsgAskNotes         = "Inserisci le note dell'intervento (almeno 5 caratteri):"
	MsgAskLocation      = "📍 Invia la tua posizione usando il pulsante qui sotto."
	MsgShareLocationBtn = "📍 Invia posizione"
	MsgConfirmLocation  = "Confermi questa posizione?\n%s"
	MsgLocationReceived = "Posizione ricevuta."
	MsgAskPhotos        = "📷 Invia %d foto dell'intervento."
	MsgPhotoReceived    = "Foto %d/%d ricevuta ✅"
	MsgSurveyComplete   = "✅ Grazie! Tutti i dati sono stati raccolti, il report verrà inviato via email."
	MsgSurveyAborted    = "❌ Si è verificato un errore: alcuni dati risultano mancanti. Contatta l'assistenza e ricomincia con %s."
	MsgOperationChosen  = "Hai scelto %s ✅"
	MsgCompanyChosen    = "Hai scelto %s ✅"
	MsgClientSaved      = "Cliente: %s"
	MsgSignalSaved      = "Segnale %d: esito %s"

	MsgInvalidClientName = "⚠️ Il nome del cliente non può essere vuoto. Riprova:"
	MsgInvalidSignal     = "⚠️ Valore non valido. Inserisci un numero intero da 1 a 98:"
	MsgInvalidNotes      = "⚠️ Le note devono contenere almeno 5 caratteri. Riprova:"
	MsgInvalidPhoto      = "⚠️ Foto non valida. Inviala di nuovo."
	MsgButtonExpired     = "Pulsante non più valido"

	LabelYes = "✅ Sì"
	LabelNo  = "❌ No"
)
