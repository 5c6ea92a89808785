package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// InstrumentOutput receives a rendered request/response exchange.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type messageIdKey struct{}

// InstrumentClient writes every exchange made through client to output.
// `prefix` is prepended to each message id so that dumps from different
// sessions sort together. a nil output makes this a no-op.
func InstrumentClient(client *resty.Client, prefix string, output InstrumentOutput) {
	if output == nil {
		return
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		messageId := fmt.Sprintf("%s%s-%s", prefix, time.Now().Format("150405.000"), uuid.NewString()[:8])
		slog.DebugContext(
			req.Context(), "start request",
			"method", req.Method,
			"url", req.URL,
			"message_id", messageId,
		)
		req.SetContext(context.WithValue(req.Context(), messageIdKey{}, messageId))
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		messageId, ok := res.Request.Context().Value(messageIdKey{}).(string)
		if !ok {
			return nil
		}
		output.Write(messageId, formatHttpMessage(res))
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		messageId, _ := req.Context().Value(messageIdKey{}).(string)
		if messageId != "" {
			output.Write(messageId, formatHttpRequest(req, err))
		}
	})
}
