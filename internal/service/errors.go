package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidState  = errors.New("invalid state")
	ErrInvalidInput  = errors.New("invalid input")
)

// Error is a registry failure carrying the numeric registry code. It unwraps to
// one of the kind errors above, so callers may match either the exact value or
// the kind with errors.Is.
type Error struct {
	Code    int
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(code int, kind error, message string) *Error {
	return &Error{Code: code, Kind: kind, Message: message}
}

// CodeOf extracts the numeric registry code from err.
func CodeOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// property registry
var (
	ErrPropertyRegistrationRestricted = newError(100, ErrUnauthorized, "property registration is restricted to the administrator")
	ErrPropertyExists                 = newError(101, ErrAlreadyExists, "property already exists")
	ErrPropertyNotFound               = newError(102, ErrNotFound, "property not found")
	ErrNotPropertyOwner               = newError(103, ErrUnauthorized, "caller is not the property owner")
	ErrPropertyAdminOnly              = newError(104, ErrUnauthorized, "caller is not the administrator")
)

// project registry
var (
	ErrProjectExists           = newError(201, ErrAlreadyExists, "project already exists")
	ErrProjectNotFound         = newError(202, ErrNotFound, "project not found")
	ErrNotProjectLandlord      = newError(203, ErrUnauthorized, "caller is not the project landlord")
	ErrNotProjectTenant        = newError(204, ErrUnauthorized, "caller is not the project tenant")
	ErrModificationExists      = newError(205, ErrAlreadyExists, "modification already exists")
	ErrModificationNotFound    = newError(206, ErrNotFound, "modification not found")
	ErrNotProjectParty         = newError(207, ErrUnauthorized, "caller is neither tenant nor landlord")
	ErrModificationNotApproved = newError(208, ErrInvalidState, "modification is not approved")
	ErrModificationCompleted   = newError(209, ErrInvalidState, "modification already completed")
)

// contractor registry
var (
	ErrContractorExists      = newError(301, ErrAlreadyExists, "contractor already exists")
	ErrContractorNotFound    = newError(302, ErrNotFound, "contractor not found")
	ErrContractorAdminOnly   = newError(303, ErrUnauthorized, "caller is not the administrator")
	ErrContractorNotVerified = newError(304, ErrInvalidState, "contractor is not verified")
	ErrAlreadyAssigned       = newError(305, ErrInvalidState, "contractor already assigned to project")
	ErrAssignmentNotFound    = newError(306, ErrNotFound, "assignment not found")
	ErrNotAssigned           = newError(307, ErrInvalidState, "contractor is not assigned")
	ErrAssignmentCompleted   = newError(308, ErrInvalidState, "assignment already completed")
	ErrInvalidRating         = newError(309, ErrInvalidInput, "rating must be between 0 and 5")
)

// allowance ledger
var (
	ErrAllowanceExists       = newError(401, ErrAlreadyExists, "allowance already exists")
	ErrAllowanceNotFound     = newError(402, ErrNotFound, "allowance not found")
	ErrNotAllowanceLandlord  = newError(403, ErrUnauthorized, "caller is not the allowance landlord")
	ErrMilestoneExists       = newError(404, ErrAlreadyExists, "milestone already exists")
	ErrExceedsRemaining      = newError(405, ErrInvalidInput, "amount exceeds remaining allowance")
	ErrMilestoneNotFound     = newError(406, ErrNotFound, "milestone not found")
	ErrNotAllowanceTenant    = newError(407, ErrUnauthorized, "caller is not the allowance tenant")
	ErrMilestoneCompleted    = newError(408, ErrInvalidState, "milestone already completed")
	ErrMilestoneNotCompleted = newError(409, ErrInvalidState, "milestone is not completed")
	ErrMilestonePaid         = newError(410, ErrInvalidState, "milestone already paid")
	ErrAllowanceClosed       = newError(411, ErrInvalidState, "allowance is closed")
	ErrNegativeAmount        = newError(412, ErrInvalidInput, "amount must not be negative")
	ErrNotAllowanceParty     = newError(413, ErrUnauthorized, "caller is neither landlord nor tenant")
)
