package commands_test

import (
	"context"
	"time"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockPackageRepository struct{ mock.Mock }

func (m *MockPackageRepository) Add(ctx context.Context, p *parcel.Package) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, p *parcel.Package) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPackageRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageRepository) GetByTrackingNumber(
	ctx context.Context,
	tn kernel.TrackingNumber,
) (*parcel.Package, error) {
	args := m.Called(ctx, tn)
	p, _ := args.Get(0).(*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageRepository) ExistsByTrackingNumber(ctx context.Context, tn kernel.TrackingNumber) (bool, error) {
	args := m.Called(ctx, tn)
	return args.Bool(0), args.Error(1)
}

func (m *MockPackageRepository) List(ctx context.Context, f ports.PackageFilter) ([]*parcel.Package, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).([]*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageRepository) CountByStatus(ctx context.Context) (map[parcel.Status]int64, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(map[parcel.Status]int64)
	return c, args.Error(1)
}

type MockPackageUoW struct{ mock.Mock }

func (m *MockPackageUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPackageUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPackageUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPackageUoW) PackageRepository() ports.PackageRepository {
	args := m.Called()
	return args.Get(0).(ports.PackageRepository)
}

type MockPackageUoWFactory struct{ mock.Mock }

func (m *MockPackageUoWFactory) Create() commands.PackageUoW {
	args := m.Called()
	return args.Get(0).(commands.PackageUoW)
}

type MockPackageLocker struct {
	mock.Mock
	released int
}

func (m *MockPackageLocker) Lock(ctx context.Context, id kernel.UUID) (func(), error) {
	args := m.Called(ctx, id)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var testNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

func mustContact(name string) kernel.Contact {
	c, err := kernel.NewContact(name, name+" road 7", "+44 20 7946 0000")
	if err != nil {
		panic(err)
	}
	return c
}

// storedPackage builds a package as a repository would return it.
func storedPackage(statuses ...parcel.Status) *parcel.Package {
	p, err := parcel.NewPackage(kernel.GenerateTrackingNumber(testNow), mustContact("Alice"), mustContact("Bob"), testNow)
	if err != nil {
		panic(err)
	}
	for i, s := range statuses {
		if err = p.ChangeStatus(s, "", testNow.Add(time.Duration(i+1)*time.Minute)); err != nil {
			panic(err)
		}
	}
	if err = p.AssignID(kernel.NewUUID()); err != nil {
		panic(err)
	}
	p.MarkSaved(int64(len(statuses) + 1))
	p.ClearDomainEvents()
	return p
}
