package constants

// User-facing messages. The backend and the staff speak Spanish.
const (
	MsgMissingBaseURL      = "B2P_API_BASE_URL no esta configurada en .env"
	MsgNotAdmin            = "No tienes permisos de administrador"
	MsgInvalidCredentials  = "Credenciales incorrectas. Verifica tu email y contraseña."
	MsgLoginFailed         = "Error al iniciar sesión. Intenta nuevamente."
	MsgNoValidSchedule     = "No hay un horario válido para esa cancha y fecha."
	MsgUnauthorized        = "Sesión expirada o no autorizada"
	MsgFetchFields         = "Error al obtener las canchas"
	MsgCreateField         = "Error al crear la cancha"
	MsgUpdateField         = "Error al actualizar la cancha"
	MsgDeleteField         = "Error al eliminar la cancha"
	MsgCreateSchedules     = "Error al crear los horarios de la cancha"
	MsgFetchBookings       = "Error al obtener reservas"
	MsgCreateBooking       = "Error al crear reserva"
	MsgUpdateBooking       = "Error al actualizar reserva"
	MsgDeleteBooking       = "Error al eliminar reserva"
	MsgInvalidBookingsBody = "Respuesta invalida del servidor al obtener reservas"
	MsgFetchSchedules      = "Error al obtener horarios"
	MsgVerifyAdmin         = "Error al verificar permisos"
	MsgMissingData         = "Respuesta del servidor sin datos"

	UnknownFieldName  = "Cancha desconocida"
	UnknownClientName = "Cliente sin nombre"
)

// PlaceholderFields are shown in the availability grid when nothing else is known.
var PlaceholderFields = []string{"CPrincipal", "C2", "C3", "C5", "C6", "C8"}
