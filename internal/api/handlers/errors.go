package handlers

import (
	"errors"
	"net/http"

	"github.com/mybakup/appointment-service/internal/domain"
	"github.com/mybakup/appointment-service/internal/service/wizard"
)

const (
	msgWizardNotFound      = "session de réservation introuvable ou expirée"
	msgForbidden           = "accès refusé"
	msgUserNotFound        = "utilisateur introuvable"
	msgBeneficiaryNotFound = "bénéficiaire introuvable"
	msgProfileUnavailable  = "service de profil indisponible, veuillez réessayer"
	msgConflict            = "la réservation a été modifiée, veuillez réessayer"
	msgInvalidInput        = "données invalides"
	msgMissingDoctor       = "les informations du médecin sont manquantes"
	msgInvalidDoctor       = "les informations du médecin sont invalides"
	msgStepGated           = "veuillez compléter l'étape en cours"
	msgLastStep            = "dernière étape atteinte"
	msgWrongStep           = "action indisponible à cette étape"
	msgUnknownSlot         = "créneau inconnu"
	msgInvalidPeriod       = "période invalide, attendu morning ou afternoon"
	msgInvalidLocationType = "type de lieu invalide, attendu cabinet ou domicile"
	msgInvalidAddress      = "adresse invalide"
	msgLookupNotAllowed    = "la géolocalisation nécessite une consultation à domicile"
	msgInvalidPathology    = "type de pathologie invalide"
	msgInvalidBeneficiary  = "bénéficiaire invalide"
	msgIncomplete          = "la réservation est incomplète"
	msgAlreadySubmitted    = "la réservation a déjà été envoyée"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var wizardErrors = []errorMapping{
	{wizard.ErrWizardNotFound, http.StatusNotFound, msgWizardNotFound},
	{wizard.ErrAccessDenied, http.StatusForbidden, msgForbidden},
	{wizard.ErrUserNotFound, http.StatusNotFound, msgUserNotFound},
	{wizard.ErrBeneficiaryNotFound, http.StatusNotFound, msgBeneficiaryNotFound},
	{wizard.ErrProfileUnavailable, http.StatusServiceUnavailable, msgProfileUnavailable},
	{wizard.ErrConflict, http.StatusConflict, msgConflict},
	{wizard.ErrInvalidInput, http.StatusBadRequest, msgInvalidInput},
	{domain.ErrMissingDoctor, http.StatusBadRequest, msgMissingDoctor},
	{domain.ErrInvalidDoctor, http.StatusBadRequest, msgInvalidDoctor},
	{domain.ErrMissingUser, http.StatusUnauthorized, msgUnauthorized},
	{domain.ErrStepGated, http.StatusUnprocessableEntity, msgStepGated},
	{domain.ErrLastStep, http.StatusConflict, msgLastStep},
	{domain.ErrWrongStep, http.StatusConflict, msgWrongStep},
	{domain.ErrUnknownSlot, http.StatusBadRequest, msgUnknownSlot},
	{domain.ErrInvalidPeriod, http.StatusBadRequest, msgInvalidPeriod},
	{domain.ErrInvalidLocationType, http.StatusBadRequest, msgInvalidLocationType},
	{domain.ErrInvalidAddress, http.StatusBadRequest, msgInvalidAddress},
	{domain.ErrLookupNotAllowed, http.StatusConflict, msgLookupNotAllowed},
	{domain.ErrInvalidPathology, http.StatusBadRequest, msgInvalidPathology},
	{domain.ErrInvalidBeneficiary, http.StatusBadRequest, msgInvalidBeneficiary},
	{domain.ErrIncomplete, http.StatusUnprocessableEntity, msgIncomplete},
	{domain.ErrAlreadySubmitted, http.StatusConflict, msgAlreadySubmitted},
	{domain.ErrNotSubmitted, http.StatusConflict, msgWrongStep},
}

// RespondWizardError отвечает на ошибку сервиса мастера или доменной модели
// Возвращает записанный код, чтобы вызывающий выбрал уровень логирования
func RespondWizardError(w http.ResponseWriter, err error) int {
	for _, m := range wizardErrors {
		if errors.Is(err, m.err) {
			RespondError(w, m.status, m.message)
			return m.status
		}
	}
	RespondInternalError(w)
	return http.StatusInternalServerError
}
