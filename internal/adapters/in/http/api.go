package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreatePackageRequest registers a package.
type CreatePackageRequest struct {
	SenderName       string `json:"senderName"`
	SenderAddress    string `json:"senderAddress"`
	SenderPhone      string `json:"senderPhone"`
	RecipientName    string `json:"recipientName"`
	RecipientAddress string `json:"recipientAddress"`
	RecipientPhone   string `json:"recipientPhone"`
}

// UpdateStatusRequest moves a package to NewStatus.
type UpdateStatusRequest struct {
	NewStatus string  `json:"newStatus"`
	Notes     *string `json:"notes,omitempty"`
}

type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     *string   `json:"notes,omitempty"`
}

type Package struct {
	Id               string               `json:"id"`
	TrackingNumber   string               `json:"trackingNumber"`
	SenderName       string               `json:"senderName"`
	SenderAddress    string               `json:"senderAddress"`
	SenderPhone      string               `json:"senderPhone"`
	RecipientName    string               `json:"recipientName"`
	RecipientAddress string               `json:"recipientAddress"`
	RecipientPhone   string               `json:"recipientPhone"`
	CurrentStatus    string               `json:"currentStatus"`
	CreatedAt        time.Time            `json:"createdAt"`
	LastUpdated      time.Time            `json:"lastUpdated"`
	StatusHistory    []StatusHistoryEntry `json:"statusHistory"`
}

// ListPackagesParams are the query parameters of ListPackages.
type ListPackagesParams struct {
	TrackingNumber *string `form:"trackingNumber" json:"trackingNumber,omitempty"`
	Status         *string `form:"status" json:"status,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List packages
	// (GET /api/v1/packages)
	ListPackages(ctx echo.Context, params ListPackagesParams) error
	// Register a package
	// (POST /api/v1/packages)
	CreatePackage(ctx echo.Context) error
	// Get a package by tracking number
	// (GET /api/v1/packages/tracking/{trackingNumber})
	GetPackageByTrackingNumber(ctx echo.Context, trackingNumber string) error
	// Get a package
	// (GET /api/v1/packages/{id})
	GetPackage(ctx echo.Context, id string) error
	// Change the status of a package
	// (PUT /api/v1/packages/{id}/status)
	UpdatePackageStatus(ctx echo.Context, id string) error
	// List the statuses the package may move to next
	// (GET /api/v1/packages/{id}/valid-transitions)
	GetValidTransitions(ctx echo.Context, id string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListPackages converts echo context to params.
func (w *ServerInterfaceWrapper) ListPackages(ctx echo.Context) error {
	var params ListPackagesParams

	err := runtime.BindQueryParameter("form", true, false, "trackingNumber", ctx.QueryParams(), &params.TrackingNumber)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter trackingNumber: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.ListPackages(ctx, params)
}

// CreatePackage converts echo context to params.
func (w *ServerInterfaceWrapper) CreatePackage(ctx echo.Context) error {
	return w.Handler.CreatePackage(ctx)
}

// GetPackageByTrackingNumber converts echo context to params.
func (w *ServerInterfaceWrapper) GetPackageByTrackingNumber(ctx echo.Context) error {
	var trackingNumber string

	err := bindPathParameter(ctx, "trackingNumber", &trackingNumber)
	if err != nil {
		return err
	}

	return w.Handler.GetPackageByTrackingNumber(ctx, trackingNumber)
}

// GetPackage converts echo context to params.
func (w *ServerInterfaceWrapper) GetPackage(ctx echo.Context) error {
	var id string

	if err := bindPathParameter(ctx, "id", &id); err != nil {
		return err
	}

	return w.Handler.GetPackage(ctx, id)
}

// UpdatePackageStatus converts echo context to params.
func (w *ServerInterfaceWrapper) UpdatePackageStatus(ctx echo.Context) error {
	var id string

	if err := bindPathParameter(ctx, "id", &id); err != nil {
		return err
	}

	return w.Handler.UpdatePackageStatus(ctx, id)
}

// GetValidTransitions converts echo context to params.
func (w *ServerInterfaceWrapper) GetValidTransitions(ctx echo.Context) error {
	var id string

	if err := bindPathParameter(ctx, "id", &id); err != nil {
		return err
	}

	return w.Handler.GetValidTransitions(ctx, id)
}

func bindPathParameter(ctx echo.Context, name string, dst any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dst,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/packages", wrapper.ListPackages)
	router.POST(baseURL+"/api/v1/packages", wrapper.CreatePackage)
	router.GET(baseURL+"/api/v1/packages/tracking/:trackingNumber", wrapper.GetPackageByTrackingNumber)
	router.GET(baseURL+"/api/v1/packages/:id", wrapper.GetPackage)
	router.PUT(baseURL+"/api/v1/packages/:id/status", wrapper.UpdatePackageStatus)
	router.GET(baseURL+"/api/v1/packages/:id/valid-transitions", wrapper.GetValidTransitions)
}
