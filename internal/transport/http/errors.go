package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"casino-livesync/internal/game"
	"casino-livesync/internal/session"
)

var errInvalidJSON = errors.New("invalid_json")

// writeSessionError maps facade sentinels onto status codes; the body
// carries the sentinel's code.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, game.ErrNotFound.Error())
	case errors.Is(err, game.ErrTableFull):
		WriteHTTPError(w, http.StatusConflict, game.ErrTableFull.Error())
	case errors.Is(err, game.ErrSeatTaken):
		WriteHTTPError(w, http.StatusConflict, game.ErrSeatTaken.Error())
	case errors.Is(err, game.ErrTournamentFull):
		WriteHTTPError(w, http.StatusConflict, game.ErrTournamentFull.Error())
	case errors.Is(err, game.ErrRegistrationClosed):
		WriteHTTPError(w, http.StatusConflict, game.ErrRegistrationClosed.Error())
	case errors.Is(err, game.ErrNotSeated):
		WriteHTTPError(w, http.StatusConflict, game.ErrNotSeated.Error())
	case errors.Is(err, game.ErrBetOutOfRange):
		WriteHTTPError(w, http.StatusBadRequest, game.ErrBetOutOfRange.Error())
	case errors.Is(err, game.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, game.ErrInvalidRequest.Error())
	case errors.Is(err, errInvalidJSON):
		WriteHTTPError(w, http.StatusBadRequest, errInvalidJSON.Error())
	case errors.Is(err, session.ErrClosed):
		WriteHTTPError(w, http.StatusServiceUnavailable, session.ErrClosed.Error())
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst as is.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}
