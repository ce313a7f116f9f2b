//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"flexPlan/internal/hs"
	"flexPlan/internal/logging"
	"flexPlan/internal/service"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

var logger = logging.NewSlog(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req service.Request
	if body != "" {
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			return errResp(400, "invalid JSON: "+err.Error())
		}
	}

	reqLog := logger.With("requestId", event.RequestContext.RequestID)
	resp, err := service.Solve(ctx, req, hs.WithLogger(reqLog))
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			return errResp(400, err.Error())
		}
		reqLog.Error("solve failed", "error", err)
		return errResp(500, "internal error")
	}

	reqLog.Info("solved", "runId", resp.RunID, "instance", resp.Instance, "score", resp.Score, "timeMs", resp.TimeMs)
	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
