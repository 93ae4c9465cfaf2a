package responses

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ActionResult is the outcome of a mutation as reported to the browser.
// ResponseCode doubles as the HTTP status of json answers.
type ActionResult struct {
	Error        bool     `json:"error"`
	Messages     []string `json:"messages"`
	ResponseCode int      `json:"response_code"`
}

func Ok(code int, messages ...string) ActionResult {
	return ActionResult{Messages: messages, ResponseCode: code}
}

func Fail(code int, messages ...string) ActionResult {
	return ActionResult{Error: true, Messages: messages, ResponseCode: code}
}

// Status is the css status used by flash messages and grid notices.
func (r ActionResult) Status() string {
	if r.Error {
		return "danger"
	}
	return "success"
}
