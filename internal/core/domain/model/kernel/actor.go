package kernel

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Role is the kind of principal acting on an order.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStore    Role = "STORE"
	RoleRider    Role = "RIDER"
	RoleAdmin    Role = "ADMIN"
)

var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor constructor")

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleStore, RoleRider, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is an authenticated principal. ID is role scoped: for STORE it is the
// store id, for RIDER the rider id, for CUSTOMER and ADMIN the user id.
type Actor struct {
	id    UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Is(role Role) bool {
	return a.role == role
}

// Require fails with a NotPermittedError unless the actor has the given role.
func (a Actor) Require(role Role) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.role != role {
		return errs.NewNotPermittedError("actor", fmt.Sprintf("%s may not act as %s", a.role, role))
	}
	return nil
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.role, a.id)
}
