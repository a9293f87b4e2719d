// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Goal errors
	CodeGoalNameEmpty           Code = "GOAL_NAME_EMPTY"
	CodeGoalInvalidCategory     Code = "GOAL_INVALID_CATEGORY"
	CodeGoalInvalidTarget       Code = "GOAL_INVALID_TARGET"
	CodeGoalNotFound            Code = "GOAL_NOT_FOUND"
	CodeGoalNotActive           Code = "GOAL_NOT_ACTIVE"
	CodeContributionNotPositive Code = "CONTRIBUTION_NOT_POSITIVE"

	// Quest errors
	CodeQuestNotFound         Code = "QUEST_NOT_FOUND"
	CodeQuestNotAvailable     Code = "QUEST_NOT_AVAILABLE"
	CodeQuestNotActive        Code = "QUEST_NOT_ACTIVE"
	CodeQuestAlreadyCompleted Code = "QUEST_ALREADY_COMPLETED"
	CodeQuestInvalidFilter    Code = "QUEST_INVALID_FILTER"

	// Veto errors
	CodeVetoItemEmpty       Code = "VETO_ITEM_EMPTY"
	CodeVetoReasonEmpty     Code = "VETO_REASON_EMPTY"
	CodeVetoAmountNegative  Code = "VETO_AMOUNT_NEGATIVE"
	CodeVetoRequestNotFound Code = "VETO_REQUEST_NOT_FOUND"
	CodeVetoOwnRequest      Code = "VETO_OWN_REQUEST"
	CodeVetoAlreadyVoted    Code = "VETO_ALREADY_VOTED"
	CodeVetoInvalidChoice   Code = "VETO_INVALID_CHOICE"
	CodeVetoNoApproveTokens Code = "VETO_NO_APPROVE_TOKENS"
	CodeVetoRequestClosed   Code = "VETO_REQUEST_CLOSED"

	// Placement errors
	CodePlacementCellLocked           Code = "PLACEMENT_CELL_LOCKED"
	CodePlacementCellOccupied         Code = "PLACEMENT_CELL_OCCUPIED"
	CodePlacementInsufficientCurrency Code = "PLACEMENT_INSUFFICIENT_CURRENCY"
	CodePlacementItemEmpty            Code = "PLACEMENT_ITEM_EMPTY"
	CodePlacementUnsupported          Code = "PLACEMENT_UNSUPPORTED"

	// Nudge errors
	CodeNudgeSelf        Code = "NUDGE_SELF"
	CodeNudgeTargetEmpty Code = "NUDGE_TARGET_EMPTY"
	CodeNudgeAlreadySent Code = "NUDGE_ALREADY_SENT"

	// Stats errors
	CodeCalendarInvalidMonth Code = "CALENDAR_INVALID_MONTH"
	CodeFlowInvalid          Code = "FLOW_INVALID"

	// Operation errors
	CodeOperationInFlight Code = "OPERATION_IN_FLIGHT"
	CodeCallerMissing     Code = "CALLER_MISSING"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"

	// Transport errors
	CodeGatewayUnavailable Code = "GATEWAY_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeGoalNameEmpty,
		CodeGoalInvalidCategory,
		CodeGoalInvalidTarget,
		CodeContributionNotPositive,
		CodeQuestInvalidFilter,
		CodeVetoItemEmpty,
		CodeVetoReasonEmpty,
		CodeVetoAmountNegative,
		CodeVetoInvalidChoice,
		CodePlacementItemEmpty,
		CodeNudgeSelf,
		CodeNudgeTargetEmpty,
		CodeCalendarInvalidMonth,
		CodeFlowInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeGoalNotActive,
		CodeQuestNotAvailable,
		CodeQuestNotActive,
		CodeQuestAlreadyCompleted,
		CodeVetoOwnRequest,
		CodeVetoNoApproveTokens,
		CodeVetoRequestClosed,
		CodePlacementCellLocked,
		CodePlacementCellOccupied,
		CodePlacementInsufficientCurrency,
		CodeOperationInFlight:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeGoalNotFound,
		CodeQuestNotFound,
		CodeVetoRequestNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAlreadyExists,
		CodeVetoAlreadyVoted,
		CodeNudgeAlreadySent:
		return codes.AlreadyExists

	case CodeCallerMissing:
		return codes.Unauthenticated

	case CodePlacementUnsupported:
		return codes.Unimplemented

	case CodeGatewayUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
