// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/taibuivan/applytrack/internal/platform/apperr"
	"github.com/taibuivan/applytrack/internal/platform/ctxutil"
	"github.com/taibuivan/applytrack/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies. Credentials payloads are tiny.
const maxBodyBytes = 1 << 16

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
RequiredEmail returns the normalized email of the account that passed the session guard.

Returns:
  - string: Normalized email
  - error: apperr.MissingToken if the request was not authorized
*/
func RequiredEmail(request *http.Request) (string, error) {
	email := ctxutil.GetAuthEmail(request.Context())
	if email == "" {
		return "", apperr.MissingToken()
	}
	return email, nil
}
