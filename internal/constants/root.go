package constants

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// FieldType represents the kind of playing field
type FieldType string

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName             = "b2p"
	DefaultKeyringUser  = "identity-token"
	RefreshKeyringUser  = "refresh-token"
	DefaultConfigDir    = "~/.config/b2p"
	DefaultCacheFile    = "cache.db"
	DefaultEnvFile      = ".env"
	EnvPrefix           = "B2P"
	Version             = "v0.3.0"
	DefaultTimeout      = 10 * time.Second
	DefaultIdentityURL  = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenURL     = "https://securetoken.googleapis.com/v1/token"
	AdminClaim          = "admin"
	DashboardUpcomingN  = 4
	DashboardWindowDays = 7

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// SlashDateFormat is the day-first date format accepted by the booking form (DD/MM/YYYY)
	SlashDateFormat = "02/01/2006"

	// Field types
	FieldType5     FieldType = "CANCHA 5"
	FieldType7     FieldType = "CANCHA 7"
	FieldType11    FieldType = "CANCHA 11"
	FieldTypePadel FieldType = "PADEL"

	// Booking statuses
	StatusConfirmed BookingStatus = "Confirmada"
	StatusPending   BookingStatus = "Pendiente"
	StatusCancelled BookingStatus = "Cancelada"
)

// Session States
const (
	StateDashboard SessionState = iota
	StateFields
	StateBookings
	StateLogin
	StateEditField
	StateAddField
	StateEditBooking
	StateConfirmDelete
	StateConfirmDeactivate
)

// FieldTypes lists every accepted field type in display order.
var FieldTypes = []FieldType{FieldType5, FieldType7, FieldType11, FieldTypePadel}

// BookingStatuses lists every accepted booking status.
var BookingStatuses = []BookingStatus{StatusConfirmed, StatusPending, StatusCancelled}
