package serverutils

type Response[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type ErrResponse struct {
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) ErrResponse {
	return ErrResponse{
		Code:    code,
		Message: message,
	}
}
