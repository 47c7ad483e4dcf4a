package queries_test

import (
	"context"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockPackageReader struct{ mock.Mock }

func (m *MockPackageReader) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageReader) GetByTrackingNumber(
	ctx context.Context,
	tn kernel.TrackingNumber,
) (*parcel.Package, error) {
	args := m.Called(ctx, tn)
	p, _ := args.Get(0).(*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageReader) List(ctx context.Context, f ports.PackageFilter) ([]*parcel.Package, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).([]*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageReader) CountByStatus(ctx context.Context) (map[parcel.Status]int64, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(map[parcel.Status]int64)
	return c, args.Error(1)
}

var testNow = time.Date(2024, time.May, 20, 8, 0, 0, 0, time.UTC)

func storedPackage(statuses ...parcel.Status) *parcel.Package {
	sender, _ := kernel.NewContact("Alice", "1 Main St", "555-0100")
	recipient, _ := kernel.NewContact("Bob", "2 Oak Ave", "555-0199")
	p, err := parcel.NewPackage(kernel.GenerateTrackingNumber(testNow), sender, recipient, testNow)
	if err != nil {
		panic(err)
	}
	for _, s := range statuses {
		if err = p.ChangeStatus(s, "", testNow); err != nil {
			panic(err)
		}
	}
	_ = p.AssignID(kernel.NewUUID())
	p.MarkSaved(1)
	return p
}
