package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RequestError is returned when NetSuite answers with a status outside 2xx
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP%d - %s", e.StatusCode, e.Body)
}

// ResponseParsingError is returned when a 2xx response body is not the
// expected structured format.
type ResponseParsingError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ResponseParsingError) Error() string {
	return fmt.Sprintf("failed to parse HTTP%d response: %v - %s", e.StatusCode, e.Err, e.Body)
}

func (e *ResponseParsingError) Unwrap() error {
	return e.Err
}

// IsSuccess reports whether the status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// CheckStatus returns a RequestError for non-2xx responses
func (r *Response) CheckStatus() error {
	if !r.IsSuccess() {
		return &RequestError{StatusCode: r.StatusCode, Body: string(r.Body)}
	}
	return nil
}

// DecodeJSON turns a response into a generic JSON value. Non-2xx statuses
// yield a RequestError, 204 yields nil without touching the body, and an
// unparseable body yields a ResponseParsingError. Numbers are decoded as
// json.Number to keep NetSuite internal ids exact.
func DecodeJSON(resp *Response) (any, error) {
	if err := resp.CheckStatus(); err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var out any
	if err := unmarshalJSON(resp.Body, &out); err != nil {
		return nil, &ResponseParsingError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Err:        err,
		}
	}
	return out, nil
}

func unmarshalJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
