package errors

import "net/http"

func InvalidArg(arg string) error {
	return New(ErrTypeInvalidArg, "invalid argument: "+arg, nil, http.StatusBadRequest)
}

func HTTPShutDown(cause error) error {
	return New(ErrTypeHTTP, "diagnostics http server shut down", cause, http.StatusInternalServerError)
}
