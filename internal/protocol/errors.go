package protocol

import (
	"errors"

	"github.com/casuskim/casus/internal/model"
)

// Error codes sent in outbound error messages
const (
	CodeMalformedMessage   = "MALFORMED_MESSAGE"
	CodeUnknownMessageType = "UNKNOWN_MESSAGE_TYPE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeRoomNotWaiting     = "ROOM_NOT_WAITING"
	CodeRoomFull           = "ROOM_FULL"
	CodeNameTaken          = "NAME_TAKEN"
	CodeInvalidName        = "INVALID_NAME"
	CodeNotInRoom          = "NOT_IN_ROOM"
	CodeNotHost            = "NOT_HOST"
	CodeNotEnoughPlayers   = "NOT_ENOUGH_PLAYERS"
	CodeInvalidSettings    = "INVALID_SETTINGS"
	CodeWrongPhase         = "WRONG_PHASE"
	CodeVotingClosed       = "VOTING_CLOSED"
	CodeInvalidVoteTarget  = "INVALID_VOTE_TARGET"
	CodeNoRecipients       = "NO_RECIPIENTS"
	CodeInternalError      = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{model.ErrMalformedMessage, CodeMalformedMessage},
	{model.ErrUnknownMessageType, CodeUnknownMessageType},
	{model.ErrUnauthorized, CodeUnauthorized},
	{model.ErrRoomNotFound, CodeRoomNotFound},
	{model.ErrRoomNotWaiting, CodeRoomNotWaiting},
	{model.ErrRoomFull, CodeRoomFull},
	{model.ErrNameTaken, CodeNameTaken},
	{model.ErrInvalidName, CodeInvalidName},
	{model.ErrNotInRoom, CodeNotInRoom},
	{model.ErrPlayerNotFound, CodeNotInRoom},
	{model.ErrNotHost, CodeNotHost},
	{model.ErrNotEnoughPlayers, CodeNotEnoughPlayers},
	{model.ErrInvalidSettings, CodeInvalidSettings},
	{model.ErrWrongPhase, CodeWrongPhase},
	{model.ErrVotingClosed, CodeVotingClosed},
	{model.ErrInvalidVoteTarget, CodeInvalidVoteTarget},
	{model.ErrNoRecipients, CodeNoRecipients},
}

// ErrorFor converts an operation error into the error message sent to the requester.
// The second return value is false for errors that are not client errors.
func ErrorFor(err error) (Error, bool) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return Error{Code: e.code, Message: err.Error()}, true
		}
	}
	return Error{Code: CodeInternalError, Message: "internal server error"}, false
}
