package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gurkanbulca/taskapi/internal/service"
)

const msgBadJSON = "Failed to decode JSON object"

// readArgs collects the request arguments from the query string, the form
// body and a JSON body. Later sources win: JSON over form over query.
func readArgs(c echo.Context) (service.Args, error) {
	args := service.Args{}
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}

	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)
	switch {
	case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
		if err := readJSONArgs(req.Body, args); err != nil {
			return nil, err
		}
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		form, err := c.FormParams()
		if err != nil {
			return nil, &service.Error{Kind: service.KindValidation, Message: err.Error()}
		}
		for key, values := range form {
			if len(values) > 0 {
				args[key] = values[0]
			}
		}
	}

	return args, nil
}

func readJSONArgs(body io.Reader, args service.Args) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &service.Error{Kind: service.KindValidation, Message: msgBadJSON}
	}

	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			// null is the same as not sending the key
		case string:
			args[key] = v
		case json.Number:
			args[key] = v.String()
		case bool:
			args[key] = strconv.FormatBool(v)
		default:
			return &service.Error{Kind: service.KindValidation, Field: key, Message: "Invalid value for parameter " + key}
		}
	}
	return nil
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &service.Error{Kind: service.KindValidation, Field: name, Message: "Invalid value for parameter " + name}
	}
	return v, nil
}

// taskID parses the :id path parameter. A non-numeric id names no task.
func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrTaskNotFound()
	}
	return id, nil
}
