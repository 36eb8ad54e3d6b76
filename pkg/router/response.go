package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questx-lab/dashboard/pkg/errorx"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(ctx context.Context, err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errx.HTTPStatus(), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	xcontext.Logger(ctx).Errorf("Unexpected error: %v", err)
	return http.StatusInternalServerError, response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func handleResponse(ctx context.Context, w http.ResponseWriter) {
	if err := xcontext.Error(ctx); err != nil {
		status, resp := newErrorResponse(ctx, err)
		if err := WriteJson(w, status, resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
		return
	}

	if resp := xcontext.Response(ctx); resp != nil {
		if err := WriteJson(w, http.StatusOK, newResponse(resp)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
