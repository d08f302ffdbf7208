package response

import "net/http"

// Body is the JSON envelope every API answer is wrapped in.
type Body struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func OK(data interface{}) Body {
	return Body{Code: http.StatusOK, Message: "success", Data: data}
}

func Fail(code int, message string) Body {
	return Body{Code: code, Message: message, Data: nil}
}
