package entitymap

import (
	"errors"
)

var (
	// ErrNotEntity the domain class isn't marked as an entity
	ErrNotEntity = errors.New("not an entity")
	// ErrBusinessNameRequired neither the class hierarchy nor the caller names the business
	ErrBusinessNameRequired = errors.New("business name required")
	// ErrUnknownDBGroup the db group isn't configured
	ErrUnknownDBGroup = errors.New("unknown db group")
	// ErrAttributeNotFound an attribute override names an attribute the table doesn't have
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrGeneratorNotFound a named id generator is neither declared on the id nor registered
	ErrGeneratorNotFound = errors.New("id generator not found")
	// ErrGeneratorKind a named id generator is of the wrong kind for the generation strategy
	ErrGeneratorKind = errors.New("wrong id generator kind")
	// ErrPrimaryKeyRequired no id is declared anywhere in the class hierarchy
	ErrPrimaryKeyRequired = errors.New("primary key required")
	// ErrUnknownShadowView no shadow view factory is registered under the name
	ErrUnknownShadowView = errors.New("unknown shadow view")
	// ErrUnknownDataLoader no data loader factory is registered under the name
	ErrUnknownDataLoader = errors.New("unknown data loader")
	// ErrUnknownInterpreter no interpreter factory is registered under the name
	ErrUnknownInterpreter = errors.New("unknown interpreter")
	// ErrDuplicateBusiness a business with the same name is already mapped
	ErrDuplicateBusiness = errors.New("duplicate business")
	// ErrInvalidConfig the configuration is malformed
	ErrInvalidConfig = errors.New("invalid config")
)
