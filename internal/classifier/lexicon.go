package classifier

import "github.com/godilite/feedback-insights/internal/feedback"

const defaultLanguage = "en"

// topics holds the per-language keyword lists. Keywords match as substrings of
// the normalised subject, so stems like "cancel" cover their inflections.
var topics = map[string]map[feedback.Category][]string{
	"en": {
		feedback.Delays:         {"delay", "late", "wait", "slow", "schedule", "closed", "stopped", "stuck", "cancelled", "cancellation"},
		feedback.Hygiene:        {"dirty", "filth", "cleaning", "smell", "odor", "sticky", "bin", "trash", "slippery"},
		feedback.Comfort:        {"air", "heat", "hot", "cold", "seat", "safe", "safety", "heating", "luggage", "baggage", "height", "headroom"},
		feedback.Infrastructure: {"door", "breakdown", "failure", "fault", "broken", "brakes", "noise", "loud", "track", "rails", "maintenance", "lighting", "lights", "damage", "guide", "bicycle", "bike", "elevator", "lift", "plug", "socket", "outlet", "announcement", "ramp", "accessibility", "emergency", "signal", "sign", "mobility"},
		feedback.Service:        {"rude", "staff", "personnel", "counter", "office", "card", "charge", "payment", "info", "information", "booking", "reservation", "stress", "tone", "confusion", "form", "ticket", "doubt", "question", "compensation", "refund", "loudspeaker", "pa system", "app"},
		feedback.User:           {"lost", "vandalism", "aggressive", "accident", "suspicious", "disturbance"},
	},
	"de": {
		feedback.Delays:         {"verspätung", "spät", "warten", "verzögerung", "langsam", "fahrplan", "geschlossen", "gestoppt", "angehalten", "ausfall", "stornierung"},
		feedback.Hygiene:        {"schmutzig", "dreckig", "schmutz", "reinigung", "sauberkeit", "geruch", "stinken", "klebrig", "mülleimer", "abfall", "rutschig", "mull"},
		feedback.Comfort:        {"luft", "klimaanlage", "hitze", "warm", "kalt", "kälte", "sitz", "sitzplatz", "sicher", "sicherheit", "heizung", "gepäck", "koffer", "höhe"},
		feedback.Infrastructure: {"tür", "panne", "defekt", "fehler", "störung", "kaputt", "bremse", "lärm", "laut", "gleis", "schiene", "wartung", "beleuchtung", "licht", "schaden", "beschädigt", "führer", "fahrrad", "aufzug", "fahrstuhl", "steckdose", "ansage", "durchsage", "rampe", "barrierefreiheit", "notfall", "signal", "schild", "mobilität", "anzeigetafeln", "lift", "ausfalle", "blockiert"},
		feedback.Service:        {"unfreundlich", "grob", "personal", "mitarbeiter", "schalter", "karte", "gebühr", "zahlung", "info", "auskunft", "reservierung", "stress", "ton", "verwirrung", "formular", "fahrkarte", "ticket", "zweifel", "frage", "entschädigung", "erstattung", "lautsprecher", "app", "unklarheiten", "personen", "buchung", "tarifzonen", "maulkorbregel"},
		feedback.User:           {"verloren", "vandalismus", "aggressiv", "unfall", "verdächtig", "störung", "unruhe", "verlust", "randalierende"},
	},
	"es": {
		feedback.Delays:         {"retraso", "tarde", "demora", "espera", "lento", "horario", "cerrado", "detenido", "cancelacion"},
		feedback.Hygiene:        {"sucio", "suciedad", "limpieza", "olor", "pegajoso", "pegajosa", "papelera", "resbaladizo", "resbaladiza"},
		feedback.Comfort:        {"aire", "calor", "frio", "asiento", "seguro", "calefaccion", "equipaje", "altura"},
		feedback.Infrastructure: {"puerta", "averia", "falla", "roto", "frenos", "ruido", "vias", "mantenimiento", "iluminacion", "daño", "guia", "bicicleta", "ascensor", "enchufe", "anuncio", "rampa", "accesibilidad", "emergencia", "señal", "movilidad"},
		feedback.Service:        {"grosero", "personal", "taquilla", "tarjeta", "cobro", "informa", "reserva", "estres", "tono", "confusion", "formulario", "billete", "duda", "compensacion", "megafonia", "app"},
		feedback.User:           {"perdido", "vandalismo", "agresiva", "accident", "sospechoso", "disturbio"},
	},
}

// sentiment weights whole words and phrases. A subject scoring above zero is
// tagged positive.
var sentiment = map[string]map[string]int{
	"de": {
		"danke": 2, "vielen dank": 3, "super": 2, "toll": 2, "lob": 3,
		"zufrieden": 2, "hervorragend": 3, "perfekt": 3, "freundlich": 2,
		"pünktlich": 1, "sauber": 1, "gerne wieder": 3, "bestens": 2,
		"angenehm": 1, "weiterempfehlen": 2, "kompetent": 2, "schnell": 1,
		"hilfsbereit": 2, "lösung": 1, "gerettet": 2, "klasse": 2,

		"schlecht": -2, "mies": -2, "enttäuscht": -3, "wütend": -3,
		"ärgerlich": -2, "unfreundlich": -2, "nie wieder": -3, "chaos": -2,
		"katastrophe": -3, "verspätung": -1, "ausfall": -2, "schmutzig": -2,
		"frieren": -1, "unmöglich": -2, "frechheit": -3, "stunde warten": -2,
		"kalt": -1, "laut": -1, "defekt": -1, "ignoriert": -2, "keine info": -2,
		"stress": -1, "belastend": -2, "problem": -1, "fehler": -1,
	},
	"es": {
		"gracias": 2, "excelente": 3, "bueno": 1, "feliz": 2, "resuelto": 2,
		"malo": -2, "pésimo": -3, "triste": -2, "enojado": -3, "tarde": -1,
	},
	"en": {
		"thanks": 2, "great": 3, "good": 1, "happy": 2, "solved": 2,
		"bad": -2, "terrible": -3, "sad": -2, "angry": -3, "late": -1,
	},
}

// praise marks a subject positive on its own, whatever the score.
var praise = map[string]string{
	"de": "lob",
}

// Languages lists the built-in lexicons.
func Languages() []string {
	return []string{"de", "en", "es"}
}
