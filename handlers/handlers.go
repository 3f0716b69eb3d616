package handlers

import (
	"errors"
	"net/http"

	"github.com/ferreirogomes/pedacim/models"
)

// principalHeader carrega o principal já autenticado pelo gateway na frente
// deste serviço. O valor é opaco e confiado como está: autenticação não é
// responsabilidade deste backend.
const principalHeader = "X-Principal"

// callerPrincipal extrai o principal do chamador da requisição.
func callerPrincipal(r *http.Request) string {
	return r.Header.Get(principalHeader)
}

// statusFor mapeia os erros de domínio para códigos HTTP. Erros fora do
// conjunto fechado vêm da chamada externa ao serviço de token e viram 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrPropertyNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotEnoughShares):
		return http.StatusConflict
	case errors.Is(err, models.ErrTokenServiceNotSet):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrAlreadyExists):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
