// Package httpclient installs the HTTP client built-ins: httpGet,
// httpPost, httpPut, httpDelete, httpPatch, and the generic http()
// request function, all backed by net/http.
package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrwan84/jeem/internal/evaluator"
	"github.com/mrwan84/jeem/internal/stdlib/codec"
)

var client = &http.Client{Timeout: 30 * time.Second}

func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("httpGet", method("GET"))
	interp.RegisterBuiltin("httpPost", method("POST"))
	interp.RegisterBuiltin("httpPut", method("PUT"))
	interp.RegisterBuiltin("httpDelete", method("DELETE"))
	interp.RegisterBuiltin("httpPatch", method("PATCH"))
	interp.RegisterBuiltin("http", builtinHTTP)
}

func method(verb string) evaluator.BuiltinFunction {
	return func(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
		if len(args) == 0 {
			return evaluator.NULL
		}
		url, ok := args[0].(*evaluator.String)
		if !ok {
			return evaluator.NULL
		}
		var body string
		if len(args) > 1 {
			if s, ok := args[1].(*evaluator.String); ok {
				body = s.Value
			} else {
				body = string(mustJSON(args[1]))
			}
		}
		return doRequest(verb, url.Value, body, nil)
	}
}

// builtinHTTP is the generic form: http(method, url[, body[, headers]]).
func builtinHTTP(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 2 {
		return evaluator.NULL
	}
	verb, ok1 := args[0].(*evaluator.String)
	url, ok2 := args[1].(*evaluator.String)
	if !ok1 || !ok2 {
		return evaluator.NULL
	}
	var body string
	if len(args) > 2 {
		if s, ok := args[2].(*evaluator.String); ok {
			body = s.Value
		}
	}
	var headers map[string]string
	if len(args) > 3 {
		if o, ok := args[3].(*evaluator.Obj); ok {
			headers = make(map[string]string)
			for _, k := range o.Keys() {
				v, _ := o.Get(k)
				if s, ok := v.(*evaluator.String); ok {
					headers[k] = s.Value
				}
			}
		}
	}
	return doRequest(verb.Value, url.Value, body, headers)
}

func doRequest(verb, url, body string, headers map[string]string) evaluator.Object {
	req, err := http.NewRequest(verb, url, strings.NewReader(body))
	if err != nil {
		return errorResponse(err.Error())
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errorResponse(err.Error())
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResponse(err.Error())
	}
	out := evaluator.NewObj()
	out.Set("status", &evaluator.Integer{Value: int64(resp.StatusCode)})
	out.Set("body", &evaluator.String{Value: string(data)})
	out.Set("ok", boolObj(resp.StatusCode >= 200 && resp.StatusCode < 300))
	return out
}

func errorResponse(msg string) evaluator.Object {
	out := evaluator.NewObj()
	out.Set("status", &evaluator.Integer{Value: 0})
	out.Set("body", &evaluator.String{Value: ""})
	out.Set("ok", evaluator.FALSE)
	out.Set("error", &evaluator.String{Value: msg})
	return out
}

func boolObj(v bool) evaluator.Object {
	if v {
		return evaluator.TRUE
	}
	return evaluator.FALSE
}

func mustJSON(o evaluator.Object) []byte {
	data, err := json.Marshal(codec.ToGo(o))
	if err != nil {
		return []byte("null")
	}
	return data
}
