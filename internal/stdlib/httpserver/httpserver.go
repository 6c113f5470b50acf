// Package httpserver installs the HTTP server built-ins: createServer,
// serverRoute, serverHandle, serverListen, serverStop. Routing is
// backed by go-chi/chi, the same router family the wider example corpus
// reaches for; request dispatch into script callbacks is serialized
// through a mutex so the single-threaded cooperative execution model
// (spec.md §5) holds even though net/http serves each connection on
// its own goroutine. middleware.Logger provides the server's request
// logging instead of a separate logging dependency.
package httpserver

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrwan84/jeem/internal/evaluator"
)

type server struct {
	mux  *chi.Mux
	http *http.Server
	mu   sync.Mutex // serializes callback dispatch across concurrent connections
}

type registry struct {
	mu      sync.Mutex
	servers map[int64]*server
	nextID  int64
}

var reg = &registry{servers: make(map[int64]*server)}

func Install(interp *evaluator.Interpreter) {
	interp.RegisterBuiltin("createServer", builtinCreateServer)
	interp.RegisterBuiltin("serverRoute", builtinServerRoute)
	interp.RegisterBuiltin("serverHandle", builtinServerHandle)
	interp.RegisterBuiltin("serverListen", builtinServerListen)
	interp.RegisterBuiltin("serverStop", builtinServerStop)
}

func builtinCreateServer(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	mux := chi.NewRouter()
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)

	reg.mu.Lock()
	reg.nextID++
	id := reg.nextID
	reg.servers[id] = &server{mux: mux}
	reg.mu.Unlock()

	return &evaluator.Integer{Value: id}
}

func lookup(args []evaluator.Object) (*server, bool) {
	if len(args) == 0 {
		return nil, false
	}
	id, ok := args[0].(*evaluator.Integer)
	if !ok {
		return nil, false
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	srv, ok := reg.servers[id.Value]
	return srv, ok
}

// builtinServerRoute wires serverRoute(id, method, path, callback):
// the callback receives (request, respond) where request is an object
// with method/path/query/body/headers and respond(status, body) sends
// the response.
func builtinServerRoute(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 4 {
		return evaluator.FALSE
	}
	srv, ok := lookup(args)
	if !ok {
		return evaluator.FALSE
	}
	verb, ok1 := args[1].(*evaluator.String)
	path, ok2 := args[2].(*evaluator.String)
	if !ok1 || !ok2 {
		return evaluator.FALSE
	}
	callback := args[3]
	srv.mux.Method(verb.Value, path.Value, makeHandler(interp, srv, callback))
	return evaluator.TRUE
}

// builtinServerHandle wires a method-agnostic catch-all at path.
func builtinServerHandle(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 3 {
		return evaluator.FALSE
	}
	srv, ok := lookup(args)
	if !ok {
		return evaluator.FALSE
	}
	path, ok1 := args[1].(*evaluator.String)
	if !ok1 {
		return evaluator.FALSE
	}
	callback := args[2]
	srv.mux.Handle(path.Value, makeHandler(interp, srv, callback))
	return evaluator.TRUE
}

func makeHandler(interp *evaluator.Interpreter, srv *server, callback evaluator.Object) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		reqObj := evaluator.NewObj()
		reqObj.Set("method", &evaluator.String{Value: r.Method})
		reqObj.Set("path", &evaluator.String{Value: r.URL.Path})
		reqObj.Set("query", &evaluator.String{Value: r.URL.RawQuery})
		reqObj.Set("body", &evaluator.String{Value: string(body)})

		headers := evaluator.NewObj()
		for k := range r.Header {
			headers.Set(k, &evaluator.String{Value: r.Header.Get(k)})
		}
		reqObj.Set("headers", headers)

		status := 200
		respBody := ""
		respond := &evaluator.Builtin{Name: "respond", Fn: func(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
			if len(args) > 0 {
				if i, ok := args[0].(*evaluator.Integer); ok {
					status = int(i.Value)
				}
			}
			if len(args) > 1 {
				if s, ok := args[1].(*evaluator.String); ok {
					respBody = s.Value
				}
			}
			return evaluator.NULL
		}}

		srv.mu.Lock()
		result := interp.InvokeCallback(callback, []evaluator.Object{reqObj, respond})
		srv.mu.Unlock()

		if s, ok := result.(*evaluator.String); ok && respBody == "" {
			respBody = s.Value
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}
}

func builtinServerListen(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	if len(args) < 2 {
		return evaluator.FALSE
	}
	srv, ok := lookup(args)
	if !ok {
		return evaluator.FALSE
	}
	port, ok := args[1].(*evaluator.Integer)
	if !ok {
		return evaluator.FALSE
	}
	srv.http = &http.Server{Addr: portAddr(port.Value), Handler: srv.mux}

	if len(args) > 2 {
		if b, ok := args[2].(*evaluator.Boolean); ok && b.Value {
			go srv.http.ListenAndServe()
			return evaluator.TRUE
		}
	}
	err := srv.http.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}

func portAddr(port int64) string {
	return ":" + strconv.FormatInt(port, 10)
}

func builtinServerStop(interp *evaluator.Interpreter, args []evaluator.Object) evaluator.Object {
	srv, ok := lookup(args)
	if !ok || srv.http == nil {
		return evaluator.FALSE
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.http.Shutdown(ctx); err != nil {
		return evaluator.FALSE
	}
	return evaluator.TRUE
}
