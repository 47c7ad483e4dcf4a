// Package seed registers packages listed in a YAML fixture at startup. Every
// entry is validated before the first package is created, then each one goes
// through the regular create and status update use cases.
//
// Fixture format:
//
//	packages:
//	  - sender:    {name: Alice, address: 1 Main St, phone: 555-0100}
//	    recipient: {name: Bob, address: 2 Oak Ave, phone: 555-0199}
//	    transitions:
//	      - status: Sent
//	        notes: picked up
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/parcel"

	"gopkg.in/yaml.v3"
)

type File struct {
	Packages []Package `yaml:"packages"`
}

type Package struct {
	Sender      Contact      `yaml:"sender"`
	Recipient   Contact      `yaml:"recipient"`
	Transitions []Transition `yaml:"transitions"`
}

type Contact struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
}

type Transition struct {
	Status string `yaml:"status"`
	Notes  string `yaml:"notes"`
}

type PackageCreator interface {
	Handle(ctx context.Context, cmd commands.CreatePackageCommand) (*parcel.Package, error)
}

type StatusUpdater interface {
	Handle(ctx context.Context, cmd commands.UpdatePackageStatusCommand) (*parcel.Package, error)
}

type Loader struct {
	create PackageCreator
	update StatusUpdater
	logger *slog.Logger
}

func NewLoader(create PackageCreator, update StatusUpdater, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{create: create, update: update, logger: logger.With("component", "seed")}
}

// Parse decodes a fixture. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("seed: parse yaml: %w", err)
	}

	return f, nil
}

// LoadFile seeds from the fixture at path and returns how many packages were created.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed: read %q: %w", path, err)
	}

	return l.Load(ctx, bytes.NewReader(data))
}

// Load seeds from r. Nothing is written when any entry is invalid; a failure
// while applying leaves the packages created so far in place.
func (l *Loader) Load(ctx context.Context, r io.Reader) (int, error) {
	f, err := Parse(r)
	if err != nil {
		return 0, err
	}

	plans := make([]plan, 0, len(f.Packages))
	for i, p := range f.Packages {
		pl, err := newPlan(p)
		if err != nil {
			return 0, fmt.Errorf("seed: package %d: %w", i+1, err)
		}
		plans = append(plans, pl)
	}

	for i, pl := range plans {
		pkg, err := l.create.Handle(ctx, pl.create)
		if err != nil {
			return i, fmt.Errorf("seed: create package %d: %w", i+1, err)
		}

		for _, step := range pl.steps {
			cmd, err := commands.NewUpdatePackageStatusCommand(pkg.ID(), step.status, step.notes)
			if err != nil {
				return i, fmt.Errorf("seed: package %d: %w", i+1, err)
			}
			if pkg, err = l.update.Handle(ctx, cmd); err != nil {
				return i + 1, fmt.Errorf("seed: package %d: move to %s: %w", i+1, step.status, err)
			}
		}

		l.logger.DebugContext(ctx, "package seeded",
			"tracking_number", pkg.TrackingNumber().String(),
			"status", pkg.CurrentStatus().String(),
		)
	}

	l.logger.InfoContext(ctx, "seed loaded", "packages", len(plans))
	return len(plans), nil
}

type step struct {
	status parcel.Status
	notes  string
}

type plan struct {
	create commands.CreatePackageCommand
	steps  []step
}

func newPlan(p Package) (plan, error) {
	sender, err := kernel.NewContact(p.Sender.Name, p.Sender.Address, p.Sender.Phone)
	if err != nil {
		return plan{}, fmt.Errorf("sender: %w", err)
	}

	recipient, err := kernel.NewContact(p.Recipient.Name, p.Recipient.Address, p.Recipient.Phone)
	if err != nil {
		return plan{}, fmt.Errorf("recipient: %w", err)
	}

	create, err := commands.NewCreatePackageCommand(sender, recipient)
	if err != nil {
		return plan{}, err
	}

	steps := make([]step, 0, len(p.Transitions))
	current := parcel.Created
	for _, t := range p.Transitions {
		status, err := parcel.ParseStatus(t.Status)
		if err != nil {
			return plan{}, err
		}
		if !parcel.IsValidTransition(current, status) {
			return plan{}, parcel.NewInvalidTransitionError(current, status)
		}
		steps = append(steps, step{status: status, notes: t.Notes})
		current = status
	}

	return plan{create: create, steps: steps}, nil
}
