// Package authz is the single authorization policy for the API. Every
// role- or ownership-sensitive decision in the order ledger and the catalog
// goes through Allow, so the rules live in one place instead of being
// scattered across handlers.
package authz

import "github.com/shashiranjanraj/canteen/pkg/auth"

// Roles assignable at registration. A role is immutable after creation;
// there is no promotion flow.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}

// Action is what the caller wants to do with a resource.
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionTransition Action = "transition" // order status change
)

// Kind identifies the resource class a rule applies to.
type Kind string

const (
	KindOrder   Kind = "order"
	KindProduct Kind = "product"
)

// Resource describes the target of an access check. OwnerID is the owning
// buyer for orders and the owning seller for products; empty means
// unowned (legacy products created before ownership was recorded).
type Resource struct {
	Kind    Kind
	OwnerID string
}

// Allow decides whether the caller may perform action on res.
//
// Rules:
//   - orders: buyers create and read only their own; sellers read any order
//     and are the only role that may transition status.
//   - products: anyone reads; only sellers create; update/delete require the
//     seller role and ownership (unowned products are mutable by any seller).
func Allow(claims *auth.Claims, res Resource, action Action) bool {
	if claims == nil {
		return res.Kind == KindProduct && action == ActionRead
	}

	switch res.Kind {
	case KindOrder:
		switch action {
		case ActionCreate:
			return claims.Role == RoleBuyer
		case ActionRead:
			if claims.Role == RoleSeller {
				return true
			}
			return claims.Role == RoleBuyer && res.OwnerID == claims.UserID
		case ActionTransition:
			return claims.Role == RoleSeller
		}
	case KindProduct:
		switch action {
		case ActionRead:
			return true
		case ActionCreate:
			return claims.Role == RoleSeller
		case ActionUpdate, ActionDelete:
			if claims.Role != RoleSeller {
				return false
			}
			return res.OwnerID == "" || res.OwnerID == claims.UserID
		}
	}

	return false
}
