package signer

import (
	"fmt"

	"tokenRelay/internal/chain"
	"tokenRelay/internal/model"
)

// Operation names a state-changing contract call.
type Operation string

const (
	OpMint         Operation = "mint"
	OpTransfer     Operation = "transfer"
	OpApprove      Operation = "approve"
	OpTransferFrom Operation = "transferFrom"
	OpBurn         Operation = "burn"
)

// Router picks which of the two server-held credentials signs a write.
// It is built once at start-up and never mutated.
type Router struct {
	primary   Credential
	secondary Credential
}

// NewRouter builds a router over the two credentials. primary also signs mints.
func NewRouter(primary, secondary Credential) (*Router, error) {
	if primary.Key == nil || secondary.Key == nil {
		return nil, fmt.Errorf("both credentials require a signing key")
	}
	return &Router{primary: primary, secondary: secondary}, nil
}

// Primary returns the owner credential. It signs every mint.
func (r *Router) Primary() Credential {
	return r.primary
}

// Route returns the credential authorized to act as actingAddress for op.
// Mint takes no caller-declared signer and always resolves to the primary credential.
func (r *Router) Route(actingAddress string, op Operation) (Credential, error) {
	switch op {
	case OpMint:
		return r.Primary(), nil
	case OpTransfer, OpApprove, OpBurn:
	case OpTransferFrom:
		return Credential{}, fmt.Errorf("transferFrom requires both addresses")
	default:
		return Credential{}, fmt.Errorf("unsupported operation: %s", op)
	}

	if _, err := chain.ParseAddress(actingAddress); err != nil {
		return Credential{}, err
	}
	cred, ok := r.match(actingAddress)
	if !ok {
		return Credential{}, unauthorized()
	}
	return cred, nil
}

// RouteTransferFrom authorizes a transferFrom. Both addresses must belong to a credential;
// the credential owning to signs, as it spends the allowance granted by from.
func (r *Router) RouteTransferFrom(from, to string) (Credential, error) {
	if _, err := chain.ParseAddress(from); err != nil {
		return Credential{}, err
	}
	if _, err := chain.ParseAddress(to); err != nil {
		return Credential{}, err
	}

	if _, ok := r.match(from); !ok {
		return Credential{}, unauthorized()
	}
	cred, ok := r.match(to)
	if !ok {
		return Credential{}, unauthorized()
	}
	return cred, nil
}

func (r *Router) match(address string) (Credential, bool) {
	switch {
	case chain.SameAddress(address, r.primary.Address.Hex()):
		return r.primary, true
	case chain.SameAddress(address, r.secondary.Address.Hex()):
		return r.secondary, true
	default:
		return Credential{}, false
	}
}

func unauthorized() error {
	return model.NewError(model.ErrUnauthorized, "Unauthorized User")
}
