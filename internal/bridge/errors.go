package bridge

import (
	"errors"
	"fmt"

	"github.com/smarr/graal-jvmci-9/internal/scope"
)

// ErrMissingProviders reports an in-image lookup for a contract that was
// never frozen at image-build time. An image that needs a provider must have
// discovered it while being built.
var ErrMissingProviders = errors.New("no frozen providers in image")

// RequiredProviderError reports that no provider was found for a mandatory
// contract. Its message is a multi-line diagnostic for a human operator
// reading a startup failure, naming the contract and two environment values
// that identify the runtime installation in use.
type RequiredProviderError struct {
	Contract scope.Contract
	Home     string
	Runtime  string
}

func (e *RequiredProviderError) Error() string {
	return fmt.Sprintf("the runtime does not expose required service %s\n"+
		"currently used home directory is %s\n"+
		"currently used runtime configuration is: %s",
		e.Contract, e.Home, e.Runtime)
}

// AmbiguousProviderError reports more than one provider for a single-valued
// contract. It names the concrete types of the first two providers in
// discovery order. This is always a configuration error to be fixed, never
// suppressed.
type AmbiguousProviderError struct {
	Contract scope.Contract
	First    string
	Second   string
}

func (e *AmbiguousProviderError) Error() string {
	return fmt.Sprintf("multiple %s providers found: %s, %s", e.Contract, e.First, e.Second)
}
