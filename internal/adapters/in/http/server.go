package http

import (
	"fmt"
	"net/http"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createPackageHandler       commands.CreatePackageCommandHandler
	updatePackageStatusHandler commands.UpdatePackageStatusCommandHandler

	// Query handlers
	getPackageHandler          queries.GetPackageQueryHandler
	getByTrackingNumberHandler queries.GetPackageByTrackingNumberQueryHandler
	listPackagesHandler        queries.ListPackagesQueryHandler
	getValidTransitionsHandler queries.GetValidTransitionsQueryHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createPackageHandler commands.CreatePackageCommandHandler,
	updatePackageStatusHandler commands.UpdatePackageStatusCommandHandler,
	getPackageHandler queries.GetPackageQueryHandler,
	getByTrackingNumberHandler queries.GetPackageByTrackingNumberQueryHandler,
	listPackagesHandler queries.ListPackagesQueryHandler,
	getValidTransitionsHandler queries.GetValidTransitionsQueryHandler,
) *Server {
	return &Server{
		createPackageHandler:       createPackageHandler,
		updatePackageStatusHandler: updatePackageStatusHandler,
		getPackageHandler:          getPackageHandler,
		getByTrackingNumberHandler: getByTrackingNumberHandler,
		listPackagesHandler:        listPackagesHandler,
		getValidTransitionsHandler: getValidTransitionsHandler,
	}
}

// ListPackages handles GET /api/v1/packages - packages matching the optional
// tracking number fragment and status, oldest first.
func (s *Server) ListPackages(ctx echo.Context, params ListPackagesParams) error {
	var trackingNumber string
	if params.TrackingNumber != nil {
		trackingNumber = *params.TrackingNumber
	}

	var status *parcel.Status
	if params.Status != nil && *params.Status != "" {
		parsed, err := parcel.ParseStatus(*params.Status)
		if err != nil {
			return err
		}
		status = &parsed
	}

	query, err := queries.NewListPackagesQuery(trackingNumber, status)
	if err != nil {
		return err
	}

	packages, err := s.listPackagesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]Package, len(packages))
	for i, p := range packages {
		response[i] = toPackage(p)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreatePackage handles POST /api/v1/packages - registers a package.
func (s *Server) CreatePackage(ctx echo.Context) error {
	var req CreatePackageRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	sender, err := kernel.NewContact(req.SenderName, req.SenderAddress, req.SenderPhone)
	if err != nil {
		return fmt.Errorf("sender: %w", err)
	}

	recipient, err := kernel.NewContact(req.RecipientName, req.RecipientAddress, req.RecipientPhone)
	if err != nil {
		return fmt.Errorf("recipient: %w", err)
	}

	cmd, err := commands.NewCreatePackageCommand(sender, recipient)
	if err != nil {
		return err
	}

	pkg, err := s.createPackageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderLocation, "/api/v1/packages/"+pkg.ID().String())
	return ctx.JSON(http.StatusCreated, toPackage(pkg))
}

// GetPackage handles GET /api/v1/packages/{id}.
func (s *Server) GetPackage(ctx echo.Context, id string) error {
	packageID, err := kernel.UUIDFromString(id)
	if err != nil {
		return err
	}

	query, err := queries.NewGetPackageQuery(packageID)
	if err != nil {
		return err
	}

	pkg, err := s.getPackageHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toPackage(pkg))
}

// GetPackageByTrackingNumber handles GET /api/v1/packages/tracking/{trackingNumber}.
func (s *Server) GetPackageByTrackingNumber(ctx echo.Context, trackingNumber string) error {
	query, err := queries.NewGetPackageByTrackingNumberQuery(trackingNumber)
	if err != nil {
		return err
	}

	pkg, err := s.getByTrackingNumberHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toPackage(pkg))
}

// UpdatePackageStatus handles PUT /api/v1/packages/{id}/status and responds
// with the package as committed.
func (s *Server) UpdatePackageStatus(ctx echo.Context, id string) error {
	packageID, err := kernel.UUIDFromString(id)
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	status, err := parcel.ParseStatus(req.NewStatus)
	if err != nil {
		return err
	}

	var notes string
	if req.Notes != nil {
		notes = *req.Notes
	}

	cmd, err := commands.NewUpdatePackageStatusCommand(packageID, status, notes)
	if err != nil {
		return err
	}

	pkg, err := s.updatePackageStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toPackage(pkg))
}

// GetValidTransitions handles GET /api/v1/packages/{id}/valid-transitions.
func (s *Server) GetValidTransitions(ctx echo.Context, id string) error {
	packageID, err := kernel.UUIDFromString(id)
	if err != nil {
		return err
	}

	query, err := queries.NewGetValidTransitionsQuery(packageID)
	if err != nil {
		return err
	}

	statuses, err := s.getValidTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]string, len(statuses))
	for i, status := range statuses {
		response[i] = status.String()
	}

	return ctx.JSON(http.StatusOK, response)
}

func toPackage(p *parcel.Package) Package {
	history := p.History()
	entries := make([]StatusHistoryEntry, len(history))
	for i, event := range history {
		entries[i] = StatusHistoryEntry{
			Status:    event.Status().String(),
			Timestamp: event.Timestamp(),
		}
		if event.HasNotes() {
			notes := event.Notes()
			entries[i].Notes = &notes
		}
	}

	return Package{
		Id:               p.ID().String(),
		TrackingNumber:   p.TrackingNumber().String(),
		SenderName:       p.Sender().Name(),
		SenderAddress:    p.Sender().Address(),
		SenderPhone:      p.Sender().Phone(),
		RecipientName:    p.Recipient().Name(),
		RecipientAddress: p.Recipient().Address(),
		RecipientPhone:   p.Recipient().Phone(),
		CurrentStatus:    p.CurrentStatus().String(),
		CreatedAt:        p.CreatedAt(),
		LastUpdated:      p.LastUpdated(),
		StatusHistory:    entries,
	}
}
