package validation

// messages maps "path.tag" to the text shown next to the offending input.
var messages = map[string]string{
	"email.required": "El correo electrónico es requerido",
	"email.email":    "Ingresa un correo electrónico válido",
	"email.base":     "Ingresa un correo electrónico válido",

	"password.required": "La contraseña es requerida",
	"password.min":      "La contraseña debe tener al menos 6 caracteres",
	"password.base":     "La contraseña es requerida",

	"name.required": "El nombre es requerido",
	"name.min":      "El nombre debe tener al menos 3 caracteres",
	"name.max":      "El nombre no debe exceder 100 caracteres",
	"name.base":     "El nombre debe ser un texto",

	"type.required":  "El tipo es requerido",
	"type.fieldtype": "El tipo debe ser: CANCHA 5, CANCHA 7, CANCHA 11 o PADEL",
	"type.base":      "El tipo debe ser un texto",

	"pricePerHour.required":   "El precio por hora es requerido",
	"pricePerHour.gt":         "El precio por hora debe ser positivo",
	"pricePerHour.precision2": "El precio por hora admite como máximo 2 decimales",
	"pricePerHour.base":       "El precio por hora debe ser un número",

	"isActive.required": "El estado es requerido",
	"isActive.base":     "El estado debe ser verdadero o falso",

	"description.max":  "La descripción no debe exceder 500 caracteres",
	"description.base": "La descripción debe ser un texto",

	"field.required": "La cancha es requerida",
	"field.base":     "La cancha debe ser un texto",

	"client.required": "El cliente es requerido",
	"client.min":      "El cliente debe tener al menos 2 caracteres",
	"client.max":      "El cliente no debe exceder 100 caracteres",
	"client.base":     "El cliente debe ser un texto",

	"tel.max":  "El teléfono no debe exceder 30 caracteres",
	"tel.base": "El teléfono debe ser un texto",

	"date.required": "La fecha es requerida",
	"date.ymd":      "La fecha debe tener el formato AAAA-MM-DD",
	"date.base":     "La fecha debe ser un texto",

	"startTime.required": "La hora de inicio es requerida",
	"startTime.hhmm":     "La hora de inicio debe tener el formato HH:MM",
	"startTime.base":     "La hora de inicio debe ser un texto",

	"endTime.required": "La hora de fin es requerida",
	"endTime.hhmm":     "La hora de fin debe tener el formato HH:MM",
	"endTime.base":     "La hora de fin debe ser un texto",

	"status.required":      "El estado es requerido",
	"status.bookingstatus": "El estado debe ser Confirmada, Pendiente o Cancelada",
	"status.base":          "El estado debe ser un texto",

	".min1": "Al menos un campo debe ser proporcionado para actualizar",
}

func message(path, tag string) string {
	if msg, ok := messages[path+"."+tag]; ok {
		return msg
	}
	return "Valor inválido"
}
