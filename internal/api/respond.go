package api

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func jsonResponse(statusCode int, payload interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		return errorResponse(500, "SERIALIZATION_ERROR", "failed to serialize response")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders,
		Body:       string(body),
	}
}

func errorResponse(statusCode int, code, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(errorBody{Error: message, Code: code})
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders,
		Body:       string(body),
	}
}
