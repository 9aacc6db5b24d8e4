package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/b2p/b2p-admin/internal/constants"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/models"
)

type envelope[T any] struct {
	Data *T `json:"data"`
}

// mutate performs a create/update call whose response must carry data.
func mutate[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out envelope[T]
	var zero T
	if err := c.Do(ctx, req, &out); err != nil {
		return zero, err
	}
	if out.Data == nil {
		return zero, apperrors.NewAPIError(http.StatusBadGateway, constants.MsgMissingData, "")
	}
	return *out.Data, nil
}

// VerifyAdmin asks the backend whether the signed-in user is an administrator.
func (c *Client) VerifyAdmin(ctx context.Context) (bool, error) {
	var out struct {
		IsAdmin *bool `json:"isAdmin"`
		Data    *struct {
			IsAdmin bool `json:"isAdmin"`
		} `json:"data"`
	}
	req := Request{Method: http.MethodGet, Path: "/users/verify-admin", Fallback: constants.MsgVerifyAdmin}
	if err := c.Do(ctx, req, &out); err != nil {
		return false, err
	}
	switch {
	case out.IsAdmin != nil:
		return *out.IsAdmin, nil
	case out.Data != nil:
		return out.Data.IsAdmin, nil
	default:
		return false, nil
	}
}

// ListFields fetches fields, optionally filtered by name and type.
func (c *Client) ListFields(ctx context.Context, filter models.FieldFilter) ([]models.Field, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.Type != "" {
		query.Set("type", string(filter.Type))
	}

	var out envelope[[]models.Field]
	req := Request{Method: http.MethodGet, Path: "/fields", Query: query, Fallback: constants.MsgFetchFields}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []models.Field{}, nil
	}
	return *out.Data, nil
}

func (c *Client) CreateField(ctx context.Context, in models.FieldInput) (models.Field, error) {
	return mutate[models.Field](ctx, c, Request{
		Method:   http.MethodPost,
		Path:     "/fields",
		Body:     in,
		Fallback: constants.MsgCreateField,
	})
}

func (c *Client) UpdateField(ctx context.Context, id string, patch models.FieldPatch) (models.Field, error) {
	return mutate[models.Field](ctx, c, Request{
		Method:   http.MethodPatch,
		Path:     "/fields/" + url.PathEscape(id),
		Body:     patch,
		Fallback: constants.MsgUpdateField,
	})
}

// SoftDeleteField deactivates a field. Fields are never hard-deleted.
func (c *Client) SoftDeleteField(ctx context.Context, id string) error {
	return c.Do(ctx, Request{
		Method:   http.MethodPatch,
		Path:     "/fields/soft/" + url.PathEscape(id),
		Body:     struct{}{},
		Fallback: constants.MsgDeleteField,
	}, nil)
}

// BulkCreateSchedules creates one slot per day and time for a field.
func (c *Client) BulkCreateSchedules(ctx context.Context, in models.BulkSchedules) error {
	return c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/schedules/bulk",
		Body:     in,
		Fallback: constants.MsgCreateSchedules,
	}, nil)
}

func (c *Client) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	var out envelope[[]models.Schedule]
	req := Request{Method: http.MethodGet, Path: "/schedules", Fallback: constants.MsgFetchSchedules}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []models.Schedule{}, nil
	}
	return *out.Data, nil
}

// ListBookings fetches bookings in the backend shape. A body without a data
// array is rejected.
func (c *Client) ListBookings(ctx context.Context) ([]models.BackendBooking, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	req := Request{Method: http.MethodGet, Path: "/bookings", Fallback: constants.MsgFetchBookings}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}

	var bookings []models.BackendBooking
	if len(out.Data) == 0 || out.Data[0] != '[' {
		return nil, apperrors.NewAPIError(http.StatusBadGateway, constants.MsgInvalidBookingsBody, "")
	}
	if err := json.Unmarshal(out.Data, &bookings); err != nil {
		return nil, apperrors.NewAPIError(http.StatusBadGateway, constants.MsgInvalidBookingsBody, "")
	}
	return bookings, nil
}

func (c *Client) CreateBooking(ctx context.Context, in models.BookingUpdate) (models.BackendBooking, error) {
	return mutate[models.BackendBooking](ctx, c, Request{
		Method:   http.MethodPost,
		Path:     "/bookings",
		Body:     in,
		Fallback: constants.MsgCreateBooking,
	})
}

func (c *Client) UpdateBooking(ctx context.Context, id string, in models.BookingUpdate) (models.BackendBooking, error) {
	return mutate[models.BackendBooking](ctx, c, Request{
		Method:   http.MethodPatch,
		Path:     "/bookings/" + url.PathEscape(id),
		Body:     in,
		Fallback: constants.MsgUpdateBooking,
	})
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.Do(ctx, Request{
		Method:   http.MethodDelete,
		Path:     "/bookings/" + url.PathEscape(id),
		Fallback: constants.MsgDeleteBooking,
	}, nil)
}
