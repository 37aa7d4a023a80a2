package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"shoppinglist-api/internal/constraints"
	"shoppinglist-api/internal/fields"
	"shoppinglist-api/internal/logging"
	"shoppinglist-api/internal/middleware"
	"shoppinglist-api/internal/models"
	"shoppinglist-api/internal/service"
	"shoppinglist-api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgBodyTooLarge  = "Request body too large"
	msgInvalidListID = "Invalid list ID"
	msgInvalidItemID = "Invalid item ID"
	msgListNotFound  = "List not found"
	msgItemNotFound  = "Item not found"
	msgTimedOut      = "Request timed out"
)

// errBodyTooLarge is returned by bindRecord when the size limit cut the
// body off
var errBodyTooLarge = errors.New("request body too large")

// bindRecord decodes the request body into a record. An empty body or a
// JSON null is an empty record; anything other than a JSON object is
// rejected. Numbers are kept as json.Number so integers survive intact.
func bindRecord(c *gin.Context) (fields.Record, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fields.Record{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var record fields.Record
	if err := dec.Decode(&record); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after JSON object")
	}
	if record == nil {
		record = fields.Record{}
	}
	return record, nil
}

// bindOrAbort binds the body and writes the failure response itself when
// binding fails
func bindOrAbort(c *gin.Context) (fields.Record, bool) {
	record, err := bindRecord(c)
	if err == nil {
		return record, true
	}

	if errors.Is(err, errBodyTooLarge) {
		respondFailure(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge, nil)
		return nil, false
	}

	logging.Logger.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
		"error":      err.Error(),
	}).Debug("Rejected request body")
	respondFailure(c, http.StatusBadRequest, msgInvalidBody, nil)
	return nil, false
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.Response{Success: true, Message: message})
}

func respondFailure(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// respondError maps a service error onto a status and envelope. failure is
// the generic message used for internal errors, e.g. "Failed to create item".
func respondError(c *gin.Context, err error, failure string) {
	var verr *validation.Error
	var violation *constraints.Violation

	switch {
	case errors.Is(err, service.ErrInvalidListID):
		respondFailure(c, http.StatusBadRequest, msgInvalidListID, nil)
	case errors.Is(err, service.ErrInvalidItemID):
		respondFailure(c, http.StatusBadRequest, msgInvalidItemID, nil)
	case errors.As(err, &verr):
		respondFailure(c, http.StatusBadRequest, verr.First().Message, verr.Failures)
	case errors.As(err, &violation):
		logging.Logger.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"constraint": violation.Constraint,
		}).Warn("Store rejected document")
		respondFailure(c, http.StatusBadRequest, violation.Failure.Message, []validation.Failure{violation.Failure})
	case errors.Is(err, service.ErrListNotFound):
		respondFailure(c, http.StatusNotFound, msgListNotFound, nil)
	case errors.Is(err, service.ErrItemNotFound):
		respondFailure(c, http.StatusNotFound, msgItemNotFound, nil)
	case errors.Is(err, context.DeadlineExceeded):
		logging.Logger.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		}).Warn("Request deadline passed before the store answered")
		respondFailure(c, http.StatusServiceUnavailable, msgTimedOut, nil)
	default:
		logging.Logger.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		}).Error(failure)
		_ = c.Error(err)
		respondFailure(c, http.StatusInternalServerError, failure, nil)
	}
}
