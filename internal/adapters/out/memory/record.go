package memory

import (
	"errors"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
)

// packageRecord is the stored form of a package. Records are never modified
// after insertion; every write inserts a fresh record.
type packageRecord struct {
	ID             string
	TrackingNumber string
	Status         int
	Seq            uint64
	Version        int64
	Sender         contactRecord
	Recipient      contactRecord
	History        []eventRecord
}

type contactRecord struct {
	Name    string
	Address string
	Phone   string
}

type eventRecord struct {
	Status int
	At     time.Time
	Notes  string
}

func newContactRecord(c kernel.Contact) contactRecord {
	return contactRecord{Name: c.Name(), Address: c.Address(), Phone: c.Phone()}
}

func newEventRecords(history []parcel.StatusEvent) []eventRecord {
	out := make([]eventRecord, 0, len(history))
	for _, e := range history {
		out = append(out, eventRecord{Status: int(e.Status()), At: e.Timestamp(), Notes: e.Notes()})
	}
	return out
}

// withUnsaved returns a copy of rec advanced by the unsaved history of p.
func (rec *packageRecord) withUnsaved(p *parcel.Package) *packageRecord {
	next := *rec
	next.History = append(append([]eventRecord(nil), rec.History...), newEventRecords(p.UnsavedHistory())...)
	next.Status = int(p.CurrentStatus())
	next.Version = rec.Version + 1
	return &next
}

func (rec *packageRecord) toDomain() (*parcel.Package, error) {
	id, err := kernel.UUIDFromString(rec.ID)
	if err != nil {
		return nil, err
	}
	tn, err := kernel.ParseTrackingNumber(rec.TrackingNumber)
	if err != nil {
		return nil, err
	}
	sender, senderErr := kernel.NewContact(rec.Sender.Name, rec.Sender.Address, rec.Sender.Phone)
	recipient, recipientErr := kernel.NewContact(rec.Recipient.Name, rec.Recipient.Address, rec.Recipient.Phone)
	if err = errors.Join(senderErr, recipientErr); err != nil {
		return nil, err
	}

	history := make([]parcel.StatusEvent, 0, len(rec.History))
	for _, e := range rec.History {
		event, eventErr := parcel.NewStatusEvent(parcel.Status(e.Status), e.At, e.Notes)
		if eventErr != nil {
			return nil, eventErr
		}
		history = append(history, event)
	}

	return parcel.RestorePackage(id, tn, sender, recipient, history, rec.Version)
}
