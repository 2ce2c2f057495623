package router

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"mailer/pkg/errutil"
	"mailer/pkg/httputil"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"
)

// to decode url params
var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrCannotDecodeUrlParams  = errors.New("cannot decode url params")
)

type Middleware interface {
	Handle(http.Handler) http.Handler
}

type MiddlewareFunc func(http.Handler) http.Handler

func (f MiddlewareFunc) Handle(next http.Handler) http.Handler {
	return f(next)
}

type Handler struct {
	Req        interface{}
	Res        interface{}
	HandleFunc func(ctx context.Context, req interface{}, res interface{}) error

	reqT   reflect.Type
	respT  reflect.Type
	errOpt httputil.ErrorOption
}

type HttpRoute struct {
	Method      string
	Path        string
	Handler     Handler
	Middlewares []Middleware
	// ErrorMessage, when set, becomes the "error" field of failed responses.
	ErrorMessage string
	// ErrorStatus, when set, is used for every failed response.
	ErrorStatus int
}

type HttpRouter struct {
	*mux.Router
	BasePath string
}

func NewHttpRouter(basePath string) *HttpRouter {
	return &HttpRouter{
		Router:   mux.NewRouter(),
		BasePath: basePath,
	}
}

func (r *HttpRouter) RegisterHttpRoute(hr *HttpRoute) {
	// save req and res type
	hr.Handler.reqT = reflect.TypeOf(hr.Handler.Req).Elem()
	hr.Handler.respT = reflect.TypeOf(hr.Handler.Res).Elem()
	hr.Handler.errOpt = httputil.ErrorOption{
		Message: hr.ErrorMessage,
		Status:  hr.ErrorStatus,
	}

	// calling chain
	chain := http.Handler(hr.Handler)

	// wrap middlewares from right to left
	for i := len(hr.Middlewares) - 1; i >= 0; i-- {
		chain = hr.Middlewares[i].Handle(chain)
	}

	r.Methods(hr.Method).Path(r.BasePath + hr.Path).Handler(chain)
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := reflect.New(h.reqT).Interface()
	res := reflect.New(h.respT).Interface()

	if err := decodeUrlParams(r, req); err != nil {
		log.Ctx(ctx).Error().Msgf("decode url params error: %v", err)
		httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(ErrCannotDecodeUrlParams), h.errOpt)
		return
	}

	if r.Body != nil && r.Body != http.NoBody {
		if !hasContentType(r, "application/json") {
			httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(ErrUnsupportedContentType), h.errOpt)
			return
		}
		if err := httputil.ReadJsonBody(r, req); err != nil {
			log.Ctx(ctx).Error().Msgf("read json body error: %v", err)
			httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(err), h.errOpt)
			return
		}
	}

	err := h.HandleFunc(ctx, req, res)
	httputil.ReturnServerResponse(w, res, err, h.errOpt)
}

// decodeUrlParams fills req from the query string and the route variables.
// Route variables win over query params of the same name.
func decodeUrlParams(r *http.Request, req interface{}) error {
	values := url.Values{}
	for k, v := range r.URL.Query() {
		values[k] = v
	}
	for k, v := range mux.Vars(r) {
		values.Set(k, v)
	}

	if len(values) == 0 {
		return nil
	}

	return decoder.Decode(req, values)
}

func hasContentType(r *http.Request, mimetype string) bool {
	contentType := r.Header.Get("Content-type")
	if contentType == "" {
		return mimetype == "application/octet-stream"
	}

	for _, v := range strings.Split(contentType, ",") {
		t, _, err := mime.ParseMediaType(v)
		if err != nil {
			break
		}
		if t == mimetype {
			return true
		}
	}
	return false
}
