package domain

import "strings"

type Role uint8

const (
	RoleCustomer Role = iota + 1
	RoleOwner
	RoleManager
	RoleWaiter
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleOwner:
		return "owner"
	case RoleManager:
		return "manager"
	case RoleWaiter:
		return "waiter"
	default:
		return "unknown"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseRole accepts only the four platform roles.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, nil
	case "owner":
		return RoleOwner, nil
	case "manager":
		return RoleManager, nil
	case "waiter":
		return RoleWaiter, nil
	}

	return 0, ErrInvalidRole
}

// Actor is the verified identity a request acts as. The set of implementations is closed:
// CustomerActor, OwnerActor, ManagerActor and WaiterActor.
type Actor interface {
	UserID() uint
	Role() Role
	actor()
}

type actorBase struct {
	userID uint
}

func (a actorBase) UserID() uint { return a.userID }
func (actorBase) actor() {}

type CustomerActor struct {
	actorBase
}

func NewCustomerActor(userID uint) CustomerActor {
	return CustomerActor{actorBase{userID: userID}}
}

func (CustomerActor) Role() Role { return RoleCustomer }

type OwnerActor struct {
	actorBase
	OwnerID uint
}

func NewOwnerActor(userID, ownerID uint) OwnerActor {
	return OwnerActor{actorBase: actorBase{userID: userID}, OwnerID: ownerID}
}

func (OwnerActor) Role() Role { return RoleOwner }

type ManagerActor struct {
	actorBase
	ManagerID uint
}

func NewManagerActor(userID, managerID uint) ManagerActor {
	return ManagerActor{actorBase: actorBase{userID: userID}, ManagerID: managerID}
}

func (ManagerActor) Role() Role { return RoleManager }

// WaiterActor carries the venue the waiter was assigned to when the request was resolved.
type WaiterActor struct {
	actorBase
	WaiterID uint
	VenueID  uint
}

func NewWaiterActor(userID, waiterID, venueID uint) WaiterActor {
	return WaiterActor{actorBase: actorBase{userID: userID}, WaiterID: waiterID, VenueID: venueID}
}

func (WaiterActor) Role() Role { return RoleWaiter }
