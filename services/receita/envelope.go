package receita

import (
	"encoding/json"
	"net/http"
	"time"
	"transparencia-backend/lib/scrapers/transparencia"
	"transparencia-backend/lib/timezone"
)

const (
	CodeSuccess  = 0
	CodeInternal = 3

	MessageSuccess  = "SUCCESS"
	MessageInternal = "INTERNAL_SERVER_ERROR"
)

// Envelope is the body of every response of the consulta endpoint.
type Envelope struct {
	// HTTP status the envelope is written with
	Status   int                    `json:"-"`
	Code     int                    `json:"code" example:"0"`
	Message  string                 `json:"message" example:"SUCCESS"`
	Datetime string                 `json:"datetime" example:"2024-02-01T10:30:00.000-03:00"`
	Results  []transparencia.Record `json:"results,omitempty"`
}

type envelopeHeader struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Datetime string `json:"datetime"`
}

// MarshalJSON always includes `results` on success, even when there are
// none, and never on failure.
func (e Envelope) MarshalJSON() ([]byte, error) {
	header := envelopeHeader{
		Code:     e.Code,
		Message:  e.Message,
		Datetime: e.Datetime,
	}
	if e.Code != CodeSuccess {
		return json.Marshal(header)
	}

	results := e.Results
	if results == nil {
		results = []transparencia.Record{}
	}
	return json.Marshal(struct {
		envelopeHeader
		Results []transparencia.Record `json:"results"`
	}{header, results})
}

func Success(now time.Time, records []transparencia.Record) Envelope {
	if records == nil {
		records = []transparencia.Record{}
	}
	return Envelope{
		Status:   http.StatusOK,
		Code:     CodeSuccess,
		Message:  MessageSuccess,
		Datetime: timezone.FormatISO(now),
		Results:  records,
	}
}

// Failure builds the envelope reported for an error of the given kind,
// internal details never end up in it.
func Failure(now time.Time, kind transparencia.Kind) Envelope {
	env := Envelope{Datetime: timezone.FormatISO(now)}
	switch kind {
	case transparencia.KindInvalidInput:
		env.Status = http.StatusUnprocessableEntity
		env.Code = http.StatusUnprocessableEntity
		env.Message = http.StatusText(http.StatusUnprocessableEntity)
	case transparencia.KindUpstreamUnavailable:
		env.Status = http.StatusBadGateway
		env.Code = http.StatusBadGateway
		env.Message = http.StatusText(http.StatusBadGateway)
	case transparencia.KindUpstreamTimeout:
		env.Status = http.StatusGatewayTimeout
		env.Code = http.StatusGatewayTimeout
		env.Message = http.StatusText(http.StatusGatewayTimeout)
	default:
		env.Status = http.StatusInternalServerError
		env.Code = CodeInternal
		env.Message = MessageInternal
	}
	return env
}
