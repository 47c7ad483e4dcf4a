// Package packagerepo maps package aggregates onto the packages and
// package_status_events tables.
package packagerepo

import (
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// PackageDTO is a row of the packages table together with its history.
type PackageDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber string     `gorm:"uniqueIndex:packages_tracking_number_key"`
	Sender         ContactDTO `gorm:"embedded;embeddedPrefix:sender_"`
	Recipient      ContactDTO `gorm:"embedded;embeddedPrefix:recipient_"`
	CurrentStatus  string     `gorm:"index:packages_current_status_idx"`
	CreatedAt      time.Time
	LastUpdated    time.Time
	Version        int64

	History []StatusEventDTO `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE"`
}

func (PackageDTO) TableName() string {
	return "packages"
}

type ContactDTO struct {
	Name    string
	Address string
	Phone   string
}

// StatusEventDTO is a row of package_status_events. Sequence is the position
// in the history, starting at 0.
type StatusEventDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	PackageID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:package_status_events_package_id_sequence_key,priority:1"`
	Sequence   int       `gorm:"not null;uniqueIndex:package_status_events_package_id_sequence_key,priority:2"`
	Status     string
	OccurredAt time.Time
	Notes      *string
}

func (StatusEventDTO) TableName() string {
	return "package_status_events"
}

func fromDomain(id uuid.UUID, p *parcel.Package) PackageDTO {
	return PackageDTO{
		ID:             id,
		TrackingNumber: p.TrackingNumber().String(),
		Sender:         contactFromDomain(p.Sender()),
		Recipient:      contactFromDomain(p.Recipient()),
		CurrentStatus:  p.CurrentStatus().String(),
		CreatedAt:      p.CreatedAt(),
		LastUpdated:    p.LastUpdated(),
		Version:        1,
		History:        eventsFromDomain(id, 0, p.History()),
	}
}

func contactFromDomain(c kernel.Contact) ContactDTO {
	return ContactDTO{Name: c.Name(), Address: c.Address(), Phone: c.Phone()}
}

// eventsFromDomain numbers the events from first onwards.
func eventsFromDomain(packageID uuid.UUID, first int, history []parcel.StatusEvent) []StatusEventDTO {
	out := make([]StatusEventDTO, 0, len(history))
	for i, e := range history {
		var notes *string
		if e.HasNotes() {
			n := e.Notes()
			notes = &n
		}
		out = append(out, StatusEventDTO{
			PackageID:  packageID,
			Sequence:   first + i,
			Status:     e.Status().String(),
			OccurredAt: e.Timestamp(),
			Notes:      notes,
		})
	}
	return out
}

// toDomain expects History ordered by Sequence.
func toDomain(dto PackageDTO) (*parcel.Package, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	tn, err := kernel.ParseTrackingNumber(dto.TrackingNumber)
	if err != nil {
		return nil, err
	}
	sender, senderErr := kernel.NewContact(dto.Sender.Name, dto.Sender.Address, dto.Sender.Phone)
	recipient, recipientErr := kernel.NewContact(dto.Recipient.Name, dto.Recipient.Address, dto.Recipient.Phone)
	if err = errors.Join(senderErr, recipientErr); err != nil {
		return nil, err
	}

	history := make([]parcel.StatusEvent, 0, len(dto.History))
	for _, row := range dto.History {
		status, statusErr := parcel.ParseStatus(row.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		var notes string
		if row.Notes != nil {
			notes = *row.Notes
		}
		event, eventErr := parcel.NewStatusEvent(status, row.OccurredAt, notes)
		if eventErr != nil {
			return nil, eventErr
		}
		history = append(history, event)
	}

	return parcel.RestorePackage(id, tn, sender, recipient, history, dto.Version)
}
