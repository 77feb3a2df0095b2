package errx

import "net/http"

// WrapSheets wraps a table source error with a consistent status and safe
// message. Fetch failures are hard failures for the request; no retry here.
func WrapSheets(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, SheetsErrorMessage)
}
