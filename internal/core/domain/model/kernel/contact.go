package kernel

import (
	"errors"
	"strings"
	"unicode/utf8"

	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

// ContactNameMaxLength bounds the stored name column.
const ContactNameMaxLength = 100

var ErrContactIsNotConstructed = errs.NewValueIsRequiredError("contact must be created via NewContact")

// Contact describes one party of a shipment. Every field is trimmed and must
// be non-empty.
type Contact struct {
	name    string
	address string
	phone   string
	guard   guard.ConstructorGuard
}

// NewContact validates all three fields at once and reports every problem in
// a single joined error.
//
// Example:
//
//	sender, err := kernel.NewContact("Alice", "1 Main St", "+1-555-0100")
//	if errors.Is(err, errs.ErrValueIsRequired) {
//	    // at least one field was blank
//	}
func NewContact(name, address, phone string) (Contact, error) {
	c := Contact{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setName(name),
		c.setAddress(address),
		c.setPhone(phone),
	); err != nil {
		return Contact{}, err
	}

	return c, nil
}

func (c Contact) Validate() error {
	return c.guard.Validate(ErrContactIsNotConstructed)
}

func (c Contact) Name() string {
	return c.name
}

func (c Contact) Address() string {
	return c.address
}

func (c Contact) Phone() string {
	return c.phone
}

func (c Contact) IsEqual(other Contact) bool {
	return c.name == other.name && c.address == other.address && c.phone == other.phone
}

func (c *Contact) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if n := utf8.RuneCountInString(name); n > ContactNameMaxLength {
		return errs.NewValueIsOutOfRangeError("name length", n, 1, ContactNameMaxLength)
	}
	c.name = name
	return nil
}

func (c *Contact) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	c.address = address
	return nil
}

func (c *Contact) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	c.phone = phone
	return nil
}
